// Package attendance provides the attendance tracking domain module.
package attendance

import (
	"seminar_portal_backend/internal/attendance/handler"
	"seminar_portal_backend/internal/attendance/repository"
	"seminar_portal_backend/internal/attendance/service"
	"seminar_portal_backend/internal/events"
	apphttp "seminar_portal_backend/internal/http"
	"seminar_portal_backend/platform/config"
	"seminar_portal_backend/platform/logger"
	"seminar_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the attendance domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new attendance module with all dependencies wired
func NewModule(
	pool *pgxpool.Pool,
	val *validator.Validator,
	schedules service.ScheduleResolver,
	seminars service.SeminarGate,
	eventBus events.Bus,
	policy config.Policy,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, schedules, seminars, eventBus, policy, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "attendance"
}

// RegisterRoutes registers the module's routes under /api/v1/attendance
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	attendance := ctx.Protected.Group("/attendance")
	m.handler.RegisterRoutes(attendance, ctx.ScanRateLimiter.RateLimit())

	admin := ctx.Admin.Group("/attendance")
	m.handler.RegisterAdminRoutes(admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
