package handler

import (
	"net/http"

	"seminar_portal_backend/internal/directory/service"
	"seminar_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the user directory
type Handler struct {
	svc *service.Service
}

// New creates a new directory handler
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the directory routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/lecturers", h.ListLecturers)
	rg.GET("/:id", h.GetUser)
}

// ListLecturers handles GET /api/v1/users/lecturers
func (h *Handler) ListLecturers(c *gin.Context) {
	result, err := h.svc.ListLecturers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetUser handles GET /api/v1/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid user ID", nil)
		return
	}

	result, err := h.svc.GetUser(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
