package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonkit/scheduler-api/internal/handler"
	"github.com/salonkit/scheduler-api/internal/model"
	"github.com/salonkit/scheduler-api/internal/service/scheduler"
	"github.com/salonkit/scheduler-api/pkg/validator"
)

type Handler struct {
	service   *scheduler.Service
	validator *validator.Validator
}

func NewHandler(service *scheduler.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	apt, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, apt)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, apt)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	apt, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, apt)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment ID")
		return
	}

	apt, err := h.service.Restore(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, apt)
}

func (h *Handler) List(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	page, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, page)
}

// Calendar returns everything touching [from, to), both bounds required.
func (h *Handler) Calendar(c *gin.Context) {
	from, err := parseTime(c.Query("from"))
	if err != nil || from == nil {
		handler.BadRequest(c, "invalid or missing from")
		return
	}
	to, err := parseTime(c.Query("to"))
	if err != nil || to == nil {
		handler.BadRequest(c, "invalid or missing to")
		return
	}

	var locationID *uuid.UUID
	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.BadRequest(c, "invalid location ID")
			return
		}
		locationID = &id
	}

	entries, err := h.service.Calendar(c.Request.Context(), *from, *to, locationID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Success(c, http.StatusOK, entries)
}

func parseFilters(c *gin.Context) (*model.AppointmentFilters, error) {
	filters := &model.AppointmentFilters{
		Query: c.Query("q"),
		Sort:  c.Query("sort"),
		Order: c.Query("order"),
	}

	var err error
	if filters.From, err = parseTime(c.Query("from")); err != nil {
		return nil, err
	}
	if filters.To, err = parseTime(c.Query("to")); err != nil {
		return nil, err
	}

	for param, dst := range map[string]**uuid.UUID{
		"location_id": &filters.LocationID,
		"customer_id": &filters.CustomerID,
		"service_id":  &filters.ServiceID,
	} {
		if raw := c.Query(param); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, err
			}
			*dst = &id
		}
	}

	if raw := c.Query("status"); raw != "" {
		status := model.AppointmentStatus(raw)
		filters.Status = &status
	}

	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		return nil, err
	}
	return filters, nil
}

func parseTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
