package storage

import (
	"context"
	"net/http"

	"seminar_portal_backend/platform/httpkit"
	"seminar_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadURLRequest asks for a presigned upload slot.
type UploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required"`
	SizeBytes   int64  `json:"sizeBytes" binding:"required,gt=0"`
}

// DownloadURLRequest asks for a presigned download of a stored object.
type DownloadURLRequest struct {
	FileKey string `form:"fileKey" binding:"required"`
}

// Handler exposes the presigned-URL endpoints
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new storage handler
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the file routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/seminar-upload-url", h.SeminarUploadURL)
	rg.POST("/evidence-upload-url", h.EvidenceUploadURL)
	rg.GET("/seminar-download-url", h.SeminarDownloadURL)
	rg.GET("/evidence-download-url", h.EvidenceDownloadURL)
	rg.GET("/qr-download-url", h.QRDownloadURL)
}

func (h *Handler) SeminarUploadURL(c *gin.Context) {
	h.presignUpload(c, h.svc.SeminarFileUploadURL)
}

func (h *Handler) EvidenceUploadURL(c *gin.Context) {
	h.presignUpload(c, h.svc.EvidenceUploadURL)
}

func (h *Handler) presignUpload(c *gin.Context, presign func(ctx context.Context, userID uuid.UUID, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := presign(c.Request.Context(), identity.UserID(), req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) SeminarDownloadURL(c *gin.Context) {
	h.presignDownload(c, h.svc.SeminarFileDownloadURL)
}

func (h *Handler) EvidenceDownloadURL(c *gin.Context) {
	h.presignDownload(c, h.svc.EvidenceDownloadURL)
}

func (h *Handler) QRDownloadURL(c *gin.Context) {
	h.presignDownload(c, h.svc.QRCodeDownloadURL)
}

func (h *Handler) presignDownload(c *gin.Context, presign func(ctx context.Context, fileKey string) (*PresignedURL, error)) {
	var req DownloadURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "fileKey is required", nil)
		return
	}

	result, err := presign(c.Request.Context(), req.FileKey)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	httpkit.OK(c, result)
}
