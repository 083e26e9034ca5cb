// Package seminar provides the seminar lifecycle domain module.
package seminar

import (
	"seminar_portal_backend/internal/events"
	apphttp "seminar_portal_backend/internal/http"
	"seminar_portal_backend/internal/seminar/handler"
	"seminar_portal_backend/internal/seminar/repository"
	"seminar_portal_backend/internal/seminar/service"
	"seminar_portal_backend/platform/logger"
	"seminar_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the seminar domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new seminar module with all dependencies wired.
// The approval manager is attached afterwards via Service.SetApprovalManager
// because the approval module depends on this one.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "seminar"
}

// RegisterRoutes registers the module's routes under /api/v1/seminars
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	seminars := ctx.Protected.Group("/seminars")
	m.handler.RegisterRoutes(seminars)

	admin := ctx.Admin.Group("/seminars")
	m.handler.RegisterAdminRoutes(admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
