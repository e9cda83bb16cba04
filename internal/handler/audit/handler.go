package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/handler"
	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/service/audit"
	"github.com/salonkit/scheduler-api/pkg/tenant"
)

type Handler struct {
	service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{service: service}
}

// List returns the tenant's audit trail, newest first.
func (h *Handler) List(c *gin.Context) {
	tenantID, err := tenant.RequireUUID(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	filters := &model.AuditLogFilters{
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
	}
	if raw := c.Query("entity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.BadRequest(c, "invalid entity ID")
			return
		}
		filters.EntityID = &id
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	entries, total, err := h.service.List(c.Request.Context(), tenantID, filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if entries == nil {
		entries = []*model.AuditLog{}
	}
	handler.Success(c, http.StatusOK, &model.Page{
		Items:    entries,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	})
}
