// Package approval provides the lecturer approval ledger module.
package approval

import (
	"seminar_portal_backend/internal/approval/handler"
	"seminar_portal_backend/internal/approval/repository"
	"seminar_portal_backend/internal/approval/service"
	"seminar_portal_backend/internal/events"
	apphttp "seminar_portal_backend/internal/http"
	"seminar_portal_backend/platform/logger"
	"seminar_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the approval domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new approval module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator, seminars service.SeminarGate, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, seminars, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "approval"
}

// RegisterRoutes registers the module's routes under /api/v1/approvals
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	approvals := ctx.Protected.Group("/approvals")
	m.handler.RegisterRoutes(approvals)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
