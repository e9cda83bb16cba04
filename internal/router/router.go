package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appointmenth "github.com/salonkit/scheduler-api/internal/handler/appointment"
	audith "github.com/salonkit/scheduler-api/internal/handler/audit"
	authh "github.com/salonkit/scheduler-api/internal/handler/auth"
	catalogh "github.com/salonkit/scheduler-api/internal/handler/catalog"
	customerh "github.com/salonkit/scheduler-api/internal/handler/customer"
	healthh "github.com/salonkit/scheduler-api/internal/handler/health"
	locationh "github.com/salonkit/scheduler-api/internal/handler/location"
	"github.com/salonkit/scheduler-api/internal/middleware"
	"github.com/salonkit/scheduler-api/pkg/logger"
	"github.com/salonkit/scheduler-api/pkg/metrics"
)

type Handlers struct {
	Appointment *appointmenth.Handler
	Location    *locationh.Handler
	Catalog     *catalogh.Handler
	Customer    *customerh.Handler
	Audit       *audith.Handler
	Auth        *authh.Handler
	Health      *healthh.Handler
}

type Config struct {
	RequestsPerSecond float64
	Burst             int
}

type Router struct {
	engine   *gin.Engine
	handlers Handlers
	authMW   *middleware.AuthMiddleware
}

func NewRouter(handlers Handlers, authMW *middleware.AuthMiddleware, m *metrics.Metrics, log *logger.Logger, cfg Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.Metrics(m),
	)

	rateLimiter := middleware.NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
	engine.Use(rateLimiter.RateLimit())

	r := &Router{engine: engine, handlers: handlers, authMW: authMW}
	r.setup()
	return r
}

func (r *Router) setup() {
	r.engine.GET("/health/live", r.handlers.Health.Liveness)
	r.engine.GET("/health/ready", r.handlers.Health.Readiness)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	api.Use(middleware.TenantContext())

	// Public routes: tenant is known, user is not yet.
	api.POST("/auth/register", r.handlers.Auth.Register)
	api.POST("/auth/login", r.handlers.Auth.Login)

	protected := api.Group("")
	protected.Use(r.authMW.Authenticate())

	appointments := protected.Group("/appointments")
	{
		appointments.POST("", r.handlers.Appointment.Create)
		appointments.GET("", r.handlers.Appointment.List)
		appointments.GET("/calendar", r.handlers.Appointment.Calendar)
		appointments.GET("/:id", r.handlers.Appointment.Get)
		appointments.PATCH("/:id", r.handlers.Appointment.Update)
		appointments.DELETE("/:id", r.handlers.Appointment.Delete)
		appointments.POST("/:id/restore", r.handlers.Appointment.Restore)
	}

	locations := protected.Group("/locations")
	{
		locations.POST("", r.handlers.Location.Create)
		locations.GET("", r.handlers.Location.List)
		locations.GET("/default", r.handlers.Location.Default)
		locations.GET("/:id", r.handlers.Location.Get)
		locations.PATCH("/:id", r.handlers.Location.Update)
		locations.DELETE("/:id", r.handlers.Location.Delete)
	}

	services := protected.Group("/services")
	{
		services.POST("", r.handlers.Catalog.Create)
		services.GET("", r.handlers.Catalog.List)
		services.GET("/:id", r.handlers.Catalog.Get)
		services.PATCH("/:id", r.handlers.Catalog.Update)
		services.DELETE("/:id", r.handlers.Catalog.Deactivate)
	}

	customers := protected.Group("/customers")
	{
		customers.POST("", r.handlers.Customer.Create)
		customers.GET("", r.handlers.Customer.List)
		customers.GET("/:id", r.handlers.Customer.Get)
		customers.PATCH("/:id", r.handlers.Customer.Update)
		customers.DELETE("/:id", r.handlers.Customer.Delete)
	}

	protected.GET("/audit-logs", r.handlers.Audit.List)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
