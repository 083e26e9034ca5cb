// Package scheduling provides the seminar scheduling domain module.
package scheduling

import (
	"context"

	"seminar_portal_backend/internal/events"
	apphttp "seminar_portal_backend/internal/http"
	"seminar_portal_backend/internal/scheduling/handler"
	"seminar_portal_backend/internal/scheduling/repository"
	"seminar_portal_backend/internal/scheduling/service"
	"seminar_portal_backend/platform/config"
	"seminar_portal_backend/platform/logger"
	"seminar_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the scheduling domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new scheduling module with all dependencies wired.
// It subscribes to seminar cancellations so a cancelled seminar releases its
// room window.
func NewModule(
	pool *pgxpool.Pool,
	val *validator.Validator,
	approvals service.ApprovalLedger,
	seminars service.SeminarGate,
	qrStore service.QRStore,
	eventBus events.Bus,
	policy config.Policy,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, approvals, seminars, qrStore, eventBus, policy, log)
	h := handler.New(svc, val)

	if eventBus != nil {
		eventBus.Subscribe(events.SeminarCancelled{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
			cancelled, ok := event.(events.SeminarCancelled)
			if !ok {
				return nil
			}
			return svc.ReleaseForSeminar(ctx, cancelled.SeminarID)
		}))
	}

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "scheduling"
}

// RegisterRoutes registers the module's routes under /api/v1/schedules
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	schedules := ctx.Protected.Group("/schedules")
	m.handler.RegisterRoutes(schedules)

	admin := ctx.Admin.Group("/schedules")
	m.handler.RegisterAdminRoutes(admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
