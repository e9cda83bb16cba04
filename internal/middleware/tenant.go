package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/salonkit/scheduler-api/internal/handler"
	apperrors "github.com/salonkit/scheduler-api/pkg/errors"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

const HeaderXTenantID = "X-Tenant-ID"

// TenantContext resolves the tenant from the X-Tenant-ID header and attaches
// it to the request context. The tenant lives on the context only, never in
// package state, so concurrent requests for different tenants cannot bleed
// into each other.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderXTenantID)
		if raw == "" {
			handler.Error(c, apperrors.MissingTenantContext())
			c.Abort()
			return
		}

		ctx, err := tenant.WithID(c.Request.Context(), raw)
		if err != nil {
			handler.Error(c, err)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireTenant guards routes that must run with a resolved tenant even when
// TenantContext was not in the chain.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := tenant.RequireUUID(c.Request.Context()); err != nil {
			handler.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
