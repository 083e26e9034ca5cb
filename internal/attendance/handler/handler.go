package handler

import (
	"net/http"

	"seminar_portal_backend/internal/attendance/service"
	"seminar_portal_backend/internal/attendance/transport"
	"seminar_portal_backend/platform/httpkit"
	"seminar_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest      = "invalid request"
	msgValidationFailed    = "validation failed"
	msgInvalidScheduleID   = "invalid schedule ID"
	msgInvalidAttendanceID = "invalid attendance ID"
	msgInvalidRevisionID   = "invalid revision ID"
	msgInvalidCheckInID    = "invalid check-in ID"
)

// Handler handles HTTP requests for attendance
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new attendance handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the authenticated attendance routes. The scan
// route additionally sits behind scanLimit.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, scanLimit gin.HandlerFunc) {
	rg.POST("/scan", scanLimit, h.Scan)
	rg.GET("/me", h.ListOwn)
	rg.GET("/me/revisions", h.ListOwnRevisions)
	rg.GET("/schedule/:scheduleId", h.ListBySchedule)
	rg.GET("/schedule/:scheduleId/me", h.GetOwn)
	rg.GET("/schedule/:scheduleId/lecturers", h.ListLecturerCheckIns)
	rg.POST("/lecturer/check-in", h.LecturerCheckIn)
	rg.POST("/:id/revisions", h.RequestRevision)
}

// RegisterAdminRoutes registers the admin-only attendance routes
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/manual", h.ManualEntry)
	rg.GET("/revisions/pending", h.ListPendingRevisions)
	rg.POST("/revisions/:revisionId/decide", h.DecideRevision)
	rg.POST("/lecturer/:checkInId/verify", h.VerifyLecturerCheckIn)
}

func parseIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// Scan handles POST /api/v1/attendance/scan
func (h *Handler) Scan(c *gin.Context) {
	var req transport.ScanRequest
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

	result, err := h.svc.Scan(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// ManualEntry handles POST /api/v1/admin/attendance/manual
func (h *Handler) ManualEntry(c *gin.Context) {
	var req transport.ManualEntryRequest
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

	result, err := h.svc.ManualEntry(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// GetOwn handles GET /api/v1/attendance/schedule/:scheduleId/me
func (h *Handler) GetOwn(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "scheduleId", msgInvalidScheduleID)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetOwn(c.Request.Context(), scheduleID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListBySchedule handles GET /api/v1/attendance/schedule/:scheduleId
func (h *Handler) ListBySchedule(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "scheduleId", msgInvalidScheduleID)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if !identity.HasRole(httpkit.RoleAdmin) && !identity.HasRole(httpkit.RoleLecturer) {
		httpkit.Error(c, http.StatusForbidden, "insufficient permissions", nil)
		return
	}

	result, err := h.svc.ListBySchedule(c.Request.Context(), scheduleID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListOwn handles GET /api/v1/attendance/me
func (h *Handler) ListOwn(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListByStudent(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// RequestRevision handles POST /api/v1/attendance/:id/revisions
func (h *Handler) RequestRevision(c *gin.Context) {
	attendanceID, ok := parseIDParam(c, "id", msgInvalidAttendanceID)
	if !ok {
		return
	}

	var req transport.RequestRevisionRequest
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

	result, err := h.svc.RequestRevision(c.Request.Context(), identity.UserID(), attendanceID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// ListOwnRevisions handles GET /api/v1/attendance/me/revisions
func (h *Handler) ListOwnRevisions(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListOwnRevisions(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListPendingRevisions handles GET /api/v1/admin/attendance/revisions/pending
func (h *Handler) ListPendingRevisions(c *gin.Context) {
	result, err := h.svc.ListPendingRevisions(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// DecideRevision handles POST /api/v1/admin/attendance/revisions/:revisionId/decide
func (h *Handler) DecideRevision(c *gin.Context) {
	revisionID, ok := parseIDParam(c, "revisionId", msgInvalidRevisionID)
	if !ok {
		return
	}

	var req transport.DecideRevisionRequest
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

	result, err := h.svc.DecideRevision(c.Request.Context(), identity.UserID(), revisionID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// LecturerCheckIn handles POST /api/v1/attendance/lecturer/check-in
func (h *Handler) LecturerCheckIn(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	if !identity.HasRole(httpkit.RoleLecturer) {
		httpkit.Error(c, http.StatusForbidden, "only lecturers can check in", nil)
		return
	}

	var req transport.LecturerCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.LecturerCheckIn(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// VerifyLecturerCheckIn handles POST /api/v1/admin/attendance/lecturer/:checkInId/verify
func (h *Handler) VerifyLecturerCheckIn(c *gin.Context) {
	checkInID, ok := parseIDParam(c, "checkInId", msgInvalidCheckInID)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.VerifyLecturerCheckIn(c.Request.Context(), checkInID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListLecturerCheckIns handles GET /api/v1/attendance/schedule/:scheduleId/lecturers
func (h *Handler) ListLecturerCheckIns(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "scheduleId", msgInvalidScheduleID)
	if !ok {
		return
	}

	result, err := h.svc.ListLecturerCheckIns(c.Request.Context(), scheduleID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
