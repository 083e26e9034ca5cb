package handler

import (
	"net/http"

	"seminar_portal_backend/internal/approval/service"
	"seminar_portal_backend/internal/approval/transport"
	"seminar_portal_backend/platform/httpkit"
	"seminar_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidSeminarID = "invalid seminar ID"
)

// Handler handles HTTP requests for approvals
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new approval handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the approval routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pending", h.ListPending)
	rg.GET("/seminar/:seminarId", h.GetForSeminar)
	rg.GET("/seminar/:seminarId/history", h.GetHistory)
	rg.POST("/seminar/:seminarId/respond", h.Respond)
}

func parseSeminarID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("seminarId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSeminarID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// ListPending handles GET /api/v1/approvals/pending
func (h *Handler) ListPending(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListPending(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetForSeminar handles GET /api/v1/approvals/seminar/:seminarId
func (h *Handler) GetForSeminar(c *gin.Context) {
	seminarID, ok := parseSeminarID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetForSeminar(c.Request.Context(), seminarID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetHistory handles GET /api/v1/approvals/seminar/:seminarId/history
func (h *Handler) GetHistory(c *gin.Context) {
	seminarID, ok := parseSeminarID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetHistory(c.Request.Context(), seminarID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Respond handles POST /api/v1/approvals/seminar/:seminarId/respond
func (h *Handler) Respond(c *gin.Context) {
	seminarID, ok := parseSeminarID(c)
	if !ok {
		return
	}

	var req transport.RespondApprovalRequest
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
	if !identity.HasRole(httpkit.RoleLecturer) {
		httpkit.Error(c, http.StatusForbidden, "only lecturers can respond to approvals", nil)
		return
	}

	result, err := h.svc.Respond(c.Request.Context(), seminarID, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
