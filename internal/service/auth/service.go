package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/repository"
	pkgauth "github.com/salonkit/scheduler-api/pkg/auth"
	apperrors "github.com/salonkit/scheduler-api/pkg/errors"
	"github.com/salonkit/scheduler-api/pkg/security"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

const bcryptCost = 12

// Service handles staff registration and login. Both are tenant scoped:
// the same email may exist under different tenants.
type Service struct {
	users  repository.UserRepository
	jwtSvc *pkgauth.JWTService
	hasher security.PasswordHasher
	txm    repository.TxManager
}

func NewService(users repository.UserRepository, jwtSvc *pkgauth.JWTService, txm repository.TxManager) *Service {
	return &Service{
		users:  users,
		jwtSvc: jwtSvc,
		hasher: security.NewBcryptHasher(bcryptCost),
		txm:    txm,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByEmail(ctx, tenantID, email)
		if err != nil {
			return fmt.Errorf("failed to check existing user: %w", err)
		}
		if existing != nil {
			return apperrors.Unauthorized(errors.New("email already registered"))
		}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	tenantID, err := tenant.RequireUUID(ctx)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, tenantID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
	}

	token, err := s.jwtSvc.GenerateToken(user.ID, user.TenantID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{Token: token, UserID: user.ID}, nil
}
