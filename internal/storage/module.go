package storage

import (
	apphttp "seminar_portal_backend/internal/http"
	"seminar_portal_backend/platform/validator"
)

// Module exposes the presigned file endpoints
type Module struct {
	handler *Handler
	Service *Service
}

// NewModule creates a new storage module around an already-built service
func NewModule(svc *Service, val *validator.Validator) *Module {
	return &Module{
		handler: NewHandler(svc, val),
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "storage"
}

// RegisterRoutes registers the module's routes under /api/v1/files
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	files := ctx.Protected.Group("/files")
	m.handler.RegisterRoutes(files)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
