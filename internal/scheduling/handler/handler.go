package handler

import (
	"net/http"

	"seminar_portal_backend/internal/scheduling/service"
	"seminar_portal_backend/internal/scheduling/transport"
	"seminar_portal_backend/platform/httpkit"
	"seminar_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for schedules
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new scheduling handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the read-only schedule routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.GetByID)
	rg.GET("/seminar/:seminarId", h.GetBySeminar)
}

// RegisterAdminRoutes registers the admin-only scheduling routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Reschedule)
}

// Create handles POST /api/v1/admin/schedules
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// Reschedule handles PUT /api/v1/admin/schedules/:id
func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid schedule ID", nil)
		return
	}

	var req transport.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Reschedule(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/schedules/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid schedule ID", nil)
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetBySeminar handles GET /api/v1/schedules/seminar/:seminarId
func (h *Handler) GetBySeminar(c *gin.Context) {
	seminarID, err := uuid.Parse(c.Param("seminarId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid seminar ID", nil)
		return
	}

	result, err := h.svc.GetBySeminar(c.Request.Context(), seminarID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
