package service

import (
	"context"

	"seminar_portal_backend/internal/directory/repository"
	"seminar_portal_backend/platform/httpkit"

	"github.com/google/uuid"
)

// Service provides read access to the user directory
type Service struct {
	repo *repository.Repository
}

// New creates a new directory service
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// GetUser retrieves a single user.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*repository.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListLecturers returns all lecturer accounts.
func (s *Service) ListLecturers(ctx context.Context) ([]repository.User, error) {
	return s.repo.ListByRole(ctx, httpkit.RoleLecturer)
}

// ListAdminIDs returns the IDs of every administrator account. Used by the
// notification fan-out.
func (s *Service) ListAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListIDsByRole(ctx, httpkit.RoleAdmin)
}

// GetUsersBatch fetches multiple users keyed by ID.
func (s *Service) GetUsersBatch(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]repository.User, error) {
	return s.repo.GetBatch(ctx, ids)
}
