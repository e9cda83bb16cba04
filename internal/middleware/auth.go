package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/handler"
	pkgauth "github.com/salonkit/scheduler-api/pkg/auth"
	apperrors "github.com/salonkit/scheduler-api/pkg/errors"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

type AuthMiddleware struct {
	jwtSvc *pkgauth.JWTService
}

func NewAuthMiddleware(jwtSvc *pkgauth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc}
}

// Authenticate validates the bearer token, checks that its tenant claim
// matches the request's tenant context, and records the acting user on the
// context for audit attribution.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handler.Error(c, apperrors.Unauthorized(errors.New("missing authorization header")))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			handler.Error(c, apperrors.Unauthorized(errors.New("invalid authorization format")))
			c.Abort()
			return
		}

		claims, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			handler.Error(c, apperrors.Unauthorized(err))
			c.Abort()
			return
		}

		if tenantID := tenant.FromContext(c.Request.Context()); tenantID != "" && tenantID != claims.TenantID {
			handler.Error(c, apperrors.Unauthorized(errors.New("token tenant mismatch")))
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			handler.Error(c, apperrors.Unauthorized(errors.New("invalid token claims")))
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(tenant.WithActor(c.Request.Context(), userID))
		c.Next()
	}
}
