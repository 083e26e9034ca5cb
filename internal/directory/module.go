// Package directory provides read access to the user directory.
package directory

import (
	"seminar_portal_backend/internal/directory/handler"
	"seminar_portal_backend/internal/directory/repository"
	"seminar_portal_backend/internal/directory/service"
	apphttp "seminar_portal_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the directory domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new directory module
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "directory"
}

// RegisterRoutes registers the module's routes under /api/v1/users
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	users := ctx.Protected.Group("/users")
	m.handler.RegisterRoutes(users)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
