package handler

import (
	"net/http"

	"seminar_portal_backend/internal/seminar/service"
	"seminar_portal_backend/internal/seminar/transport"
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

// Handler handles HTTP requests for seminars
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new seminar handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the seminar routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/submit", h.Submit)
	rg.POST("/:id/resubmit", h.Resubmit)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/:id/finish", h.Finish)
	rg.GET("/:id/history", h.GetHistory)

	rg.GET("/:id/revision-items", h.ListRevisionItems)
	rg.POST("/:id/revision-items", h.RequestRevisionItem)
	rg.POST("/revision-items/:itemId/submit", h.SubmitRevisionItem)
	rg.POST("/revision-items/:itemId/validate", h.ValidateRevisionItem)
}

// RegisterAdminRoutes registers the admin-only verification routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/verify", h.Verify)
	rg.POST("/:id/send-back", h.SendBack)
}

func parseIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// List handles GET /api/v1/seminars
func (h *Handler) List(c *gin.Context) {
	var req transport.ListSeminarsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	role := httpkit.RoleStudent
	if identity.HasRole(httpkit.RoleAdmin) {
		role = httpkit.RoleAdmin
	} else if identity.HasRole(httpkit.RoleLecturer) {
		role = httpkit.RoleLecturer
	}

	result, err := h.svc.List(c.Request.Context(), identity.UserID(), role, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Create handles POST /api/v1/seminars
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateSeminarRequest
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

// GetByID handles GET /api/v1/seminars/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id, identity.UserID(), identity.HasRole(httpkit.RoleAdmin))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Submit handles POST /api/v1/seminars/:id/submit
func (h *Handler) Submit(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	var req transport.SubmitSeminarRequest
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

	result, err := h.svc.Submit(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Resubmit handles POST /api/v1/seminars/:id/resubmit
func (h *Handler) Resubmit(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	var req transport.ResubmitSeminarRequest
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

	result, err := h.svc.Resubmit(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Verify handles POST /api/v1/admin/seminars/:id/verify
func (h *Handler) Verify(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	var req transport.VerifySeminarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Verify(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// SendBack handles POST /api/v1/admin/seminars/:id/send-back
func (h *Handler) SendBack(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	var req transport.SendBackSeminarRequest
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

	result, err := h.svc.SendBack(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Cancel handles POST /api/v1/seminars/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	var req transport.CancelSeminarRequest
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

	role := httpkit.RoleStudent
	if identity.HasRole(httpkit.RoleAdmin) {
		role = httpkit.RoleAdmin
	}

	result, err := h.svc.Cancel(c.Request.Context(), id, identity.UserID(), role, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Finish handles POST /api/v1/seminars/:id/finish
func (h *Handler) Finish(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	var req transport.FinishSeminarRequest
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

	result, err := h.svc.Finish(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetHistory handles GET /api/v1/seminars/:id/history
func (h *Handler) GetHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetHistory(c.Request.Context(), id, identity.UserID(), identity.HasRole(httpkit.RoleAdmin))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListRevisionItems handles GET /api/v1/seminars/:id/revision-items
func (h *Handler) ListRevisionItems(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListRevisionItems(c.Request.Context(), id, identity.UserID(), identity.HasRole(httpkit.RoleAdmin))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// RequestRevisionItem handles POST /api/v1/seminars/:id/revision-items
func (h *Handler) RequestRevisionItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id", msgInvalidSeminarID)
	if !ok {
		return
	}

	var req transport.CreateRevisionItemRequest
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

	result, err := h.svc.RequestRevisionItem(c.Request.Context(), id, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// SubmitRevisionItem handles POST /api/v1/seminars/revision-items/:itemId/submit
func (h *Handler) SubmitRevisionItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId", "invalid revision item ID")
	if !ok {
		return
	}

	var req transport.SubmitRevisionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SubmitRevisionItem(c.Request.Context(), itemID, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ValidateRevisionItem handles POST /api/v1/seminars/revision-items/:itemId/validate
func (h *Handler) ValidateRevisionItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId", "invalid revision item ID")
	if !ok {
		return
	}

	var req transport.ValidateRevisionItemRequest
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

	result, err := h.svc.ValidateRevisionItem(c.Request.Context(), itemID, identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
