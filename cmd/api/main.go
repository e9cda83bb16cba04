package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/salonkit/scheduler-api/internal/config"
	appointmenth "github.com/salonkit/scheduler-api/internal/handler/appointment"
	audith "github.com/salonkit/scheduler-api/internal/handler/audit"
	authh "github.com/salonkit/scheduler-api/internal/handler/auth"
	catalogh "github.com/salonkit/scheduler-api/internal/handler/catalog"
	customerh "github.com/salonkit/scheduler-api/internal/handler/customer"
	healthh "github.com/salonkit/scheduler-api/internal/handler/health"
	locationh "github.com/salonkit/scheduler-api/internal/handler/location"
	"github.com/salonkit/scheduler-api/internal/middleware"
	"github.com/salonkit/scheduler-api/internal/repository/postgres"
	"github.com/salonkit/scheduler-api/internal/router"
	auditService "github.com/salonkit/scheduler-api/internal/service/audit"
	authService "github.com/salonkit/scheduler-api/internal/service/auth"
	catalogService "github.com/salonkit/scheduler-api/internal/service/catalog"
	customerService "github.com/salonkit/scheduler-api/internal/service/customer"
	locationService "github.com/salonkit/scheduler-api/internal/service/location"
	schedulerService "github.com/salonkit/scheduler-api/internal/service/scheduler"
	pkgauth "github.com/salonkit/scheduler-api/pkg/auth"
	"github.com/salonkit/scheduler-api/pkg/logger"
	"github.com/salonkit/scheduler-api/pkg/metrics"
	"github.com/salonkit/scheduler-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logger.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{Level: level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Repositories share one base so every unit of work runs in one
	// transaction.
	base := postgres.NewBaseRepository(db)
	txm := &base
	appointmentRepo := postgres.NewAppointmentRepository(base)
	locationRepo := postgres.NewLocationRepository(base)
	serviceRepo := postgres.NewServiceRepository(base)
	customerRepo := postgres.NewCustomerRepository(base)
	auditRepo := postgres.NewAuditRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)
	userRepo := postgres.NewUserRepository(base)

	m := metrics.NewMetrics("scheduler_api")

	auditSvc := auditService.NewService(auditRepo)
	locationSvc := locationService.NewService(locationRepo, auditSvc, txm)
	catalogSvc := catalogService.NewService(serviceRepo, auditSvc, txm)
	customerSvc := customerService.NewService(customerRepo, auditSvc, txm)
	schedulerSvc := schedulerService.NewService(
		appointmentRepo,
		customerRepo,
		serviceRepo,
		locationSvc,
		locationRepo,
		auditSvc,
		outboxRepo,
		txm,
		m,
	)

	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(userRepo, jwtSvc, txm)

	v := validator.New()

	handlers := router.Handlers{
		Appointment: appointmenth.NewHandler(schedulerSvc, v),
		Location:    locationh.NewHandler(locationSvc, v),
		Catalog:     catalogh.NewHandler(catalogSvc, v),
		Customer:    customerh.NewHandler(customerSvc, v),
		Audit:       audith.NewHandler(auditSvc),
		Auth:        authh.NewHandler(authSvc, v),
		Health:      healthh.NewHandler(db),
	}

	authMW := middleware.NewAuthMiddleware(jwtSvc)
	r := router.NewRouter(handlers, authMW, m, log, router.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited")
}
