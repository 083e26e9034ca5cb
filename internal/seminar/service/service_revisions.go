package service

import (
	"context"
	"time"

	"seminar_portal_backend/internal/events"
	"seminar_portal_backend/internal/seminar/domain"
	"seminar_portal_backend/internal/seminar/repository"
	"seminar_portal_backend/internal/seminar/transport"
	"seminar_portal_backend/platform/apperr"
	"seminar_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Revision item statuses.
const (
	revisionRequested = "requested"
	revisionSubmitted = "submitted"
	revisionAccepted  = "accepted"
	revisionRejected  = "rejected"
)

// RequestRevisionItem opens a correction request against a held seminar.
// Only assigned lecturers may request revisions, and only once the seminar
// has actually taken place.
func (s *Service) RequestRevisionItem(ctx context.Context, seminarID, lecturerID uuid.UUID, req transport.CreateRevisionItemRequest) (*transport.RevisionItemResponse, error) {
	seminar, err := s.repo.GetByID(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	if !isAssignedLecturer(seminar, lecturerID) {
		return nil, apperr.Forbidden("not authorized to request revisions on this seminar")
	}
	if seminar.Status != string(domain.StatusScheduled) {
		return nil, apperr.Unprocessable("revisions can only be requested for a scheduled seminar")
	}

	now := time.Now()
	item := &repository.RevisionItem{
		ID:          uuid.New(),
		SeminarID:   seminarID,
		RequestedBy: lecturerID,
		Title:       sanitize.Text(req.Title),
		Description: sanitize.TextPtr(req.Description),
		Status:      revisionRequested,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateRevisionItem(ctx, item); err != nil {
		return nil, err
	}

	s.publish(ctx, events.RevisionItemRequested{
		BaseEvent:   events.NewBaseEvent(),
		ItemID:      item.ID,
		SeminarID:   seminarID,
		StudentID:   seminar.StudentID,
		RequestedBy: lecturerID,
		Title:       item.Title,
	})

	resp := toRevisionItemResponse(item)
	return &resp, nil
}

// SubmitRevisionItem records the student's fix for a revision item. Allowed
// from requested or rejected; a resubmission after rejection bumps the
// revision counter.
func (s *Service) SubmitRevisionItem(ctx context.Context, itemID, studentID uuid.UUID, req transport.SubmitRevisionItemRequest) (*transport.RevisionItemResponse, error) {
	item, err := s.repo.GetRevisionItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	seminar, err := s.repo.GetByID(ctx, item.SeminarID)
	if err != nil {
		return nil, err
	}
	if seminar.StudentID != studentID {
		return nil, apperr.Forbidden("not authorized to submit this revision item")
	}

	switch item.Status {
	case revisionRequested, revisionRejected:
	default:
		return nil, apperr.Unprocessable("revision item is not awaiting a submission")
	}

	bumpCount := item.Status == revisionRejected
	note := sanitize.TextPtr(req.StudentNote)
	if err := s.repo.SubmitRevisionItem(ctx, itemID, req.FileKey, note, revisionSubmitted, bumpCount); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetRevisionItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	resp := toRevisionItemResponse(updated)
	return &resp, nil
}

// ValidateRevisionItem records the requesting lecturer's verdict on a
// submitted item. Decisions are final per submission; a rejected item goes
// back to the student instead.
func (s *Service) ValidateRevisionItem(ctx context.Context, itemID, lecturerID uuid.UUID, req transport.ValidateRevisionItemRequest) (*transport.RevisionItemResponse, error) {
	item, err := s.repo.GetRevisionItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	seminar, err := s.repo.GetByID(ctx, item.SeminarID)
	if err != nil {
		return nil, err
	}
	if !isAssignedLecturer(seminar, lecturerID) {
		return nil, apperr.Forbidden("not authorized to validate this revision item")
	}
	if item.Status != revisionSubmitted {
		return nil, apperr.Unprocessable("revision item has no pending submission to validate")
	}

	status := revisionAccepted
	var rejectionReason *string
	if !req.Accept {
		if req.RejectionReason == nil || *req.RejectionReason == "" {
			return nil, apperr.BadRequest("rejectionReason is required when rejecting")
		}
		status = revisionRejected
		rejectionReason = sanitize.TextPtr(req.RejectionReason)
	}

	if err := s.repo.ValidateRevisionItem(ctx, itemID, lecturerID, status, rejectionReason); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetRevisionItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.RevisionItemResolved{
		BaseEvent: events.NewBaseEvent(),
		ItemID:    itemID,
		SeminarID: item.SeminarID,
		StudentID: seminar.StudentID,
		DecidedBy: lecturerID,
		Decision:  status,
	})

	resp := toRevisionItemResponse(updated)
	return &resp, nil
}

// ListRevisionItems returns all revision items for a seminar.
func (s *Service) ListRevisionItems(ctx context.Context, seminarID, callerID uuid.UUID, isAdmin bool) ([]transport.RevisionItemResponse, error) {
	if _, err := s.ensureAccess(ctx, seminarID, callerID, isAdmin); err != nil {
		return nil, err
	}

	items, err := s.repo.ListRevisionItems(ctx, seminarID)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.RevisionItemResponse, len(items))
	for i := range items {
		resp[i] = toRevisionItemResponse(&items[i])
	}
	return resp, nil
}

func toRevisionItemResponse(item *repository.RevisionItem) transport.RevisionItemResponse {
	return transport.RevisionItemResponse{
		ID:              item.ID,
		SeminarID:       item.SeminarID,
		RequestedBy:     item.RequestedBy,
		Title:           item.Title,
		Description:     item.Description,
		Status:          item.Status,
		FileKey:         item.FileKey,
		StudentNote:     item.StudentNote,
		RejectionReason: item.RejectionReason,
		RevisionCount:   item.RevisionCount,
		ValidatedBy:     item.ValidatedBy,
		ValidatedAt:     item.ValidatedAt,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}
