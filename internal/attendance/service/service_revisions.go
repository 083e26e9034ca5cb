package service

import (
	"context"
	"fmt"
	"time"

	"seminar_portal_backend/internal/attendance/repository"
	"seminar_portal_backend/internal/attendance/transport"
	"seminar_portal_backend/internal/events"
	"seminar_portal_backend/platform/apperr"
	"seminar_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// RequestRevision opens a revision request against the student's own
// attendance record. Only one request may be pending per record.
func (s *Service) RequestRevision(ctx context.Context, studentID, attendanceID uuid.UUID, req transport.RequestRevisionRequest) (*transport.RevisionResponse, error) {
	attendance, err := s.repo.GetByID(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	if attendance.StudentID != studentID {
		return nil, apperr.Forbidden("you can only contest your own attendance")
	}
	if attendance.Status == req.RequestedStatus {
		return nil, apperr.BadRequest("attendance already has the requested status")
	}

	now := time.Now()
	rev := &repository.Revision{
		ID:              uuid.New(),
		AttendanceID:    attendance.ID,
		ScheduleID:      attendance.ScheduleID,
		StudentID:       studentID,
		OldStatus:       attendance.Status,
		RequestedStatus: req.RequestedStatus,
		Reason:          sanitize.Text(req.Reason),
		EvidenceKey:     req.EvidenceKey,
		Status:          revisionPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateRevision(ctx, rev); err != nil {
		return nil, err
	}

	s.publish(ctx, events.AttendanceRevisionRequested{
		BaseEvent:    events.NewBaseEvent(),
		RevisionID:   rev.ID,
		AttendanceID: attendance.ID,
		ScheduleID:   attendance.ScheduleID,
		StudentID:    studentID,
		OldStatus:    rev.OldStatus,
		NewStatus:    rev.RequestedStatus,
		Reason:       rev.Reason,
	})

	resp := toRevisionResponse(rev)
	return &resp, nil
}

// DecideRevision resolves a pending revision request. Approving it also
// rewrites the attendance record's status, in the same transaction.
func (s *Service) DecideRevision(ctx context.Context, adminID, revisionID uuid.UUID, req transport.DecideRevisionRequest) (*transport.RevisionResponse, error) {
	rev, err := s.repo.GetRevision(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	verdict := revisionRejected
	if req.Approve {
		verdict = revisionApproved
	}
	note := sanitize.TextPtr(req.Note)

	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	decided, err := s.repo.DecideRevision(ctx, tx, revisionID, adminID, verdict, note)
	if err != nil {
		return nil, err
	}
	if !decided {
		return nil, apperr.Unprocessable("revision request has already been decided")
	}
	if req.Approve {
		if err := s.repo.UpdateStatus(ctx, tx, rev.AttendanceID, rev.RequestedStatus); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	rev, err = s.repo.GetRevision(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.AttendanceRevisionResolved{
		BaseEvent:    events.NewBaseEvent(),
		RevisionID:   rev.ID,
		AttendanceID: rev.AttendanceID,
		StudentID:    rev.StudentID,
		ApproverID:   adminID,
		Decision:     verdict,
		NewStatus:    rev.RequestedStatus,
	})

	resp := toRevisionResponse(rev)
	return &resp, nil
}

// ListPendingRevisions returns all open revision requests for admin review.
func (s *Service) ListPendingRevisions(ctx context.Context) ([]transport.RevisionResponse, error) {
	items, err := s.repo.ListPendingRevisions(ctx)
	if err != nil {
		return nil, err
	}
	return toRevisionResponses(items), nil
}

// ListOwnRevisions returns a student's revision requests.
func (s *Service) ListOwnRevisions(ctx context.Context, studentID uuid.UUID) ([]transport.RevisionResponse, error) {
	items, err := s.repo.ListRevisionsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toRevisionResponses(items), nil
}

func toRevisionResponse(rev *repository.Revision) transport.RevisionResponse {
	return transport.RevisionResponse{
		ID:              rev.ID,
		AttendanceID:    rev.AttendanceID,
		ScheduleID:      rev.ScheduleID,
		StudentID:       rev.StudentID,
		OldStatus:       rev.OldStatus,
		RequestedStatus: rev.RequestedStatus,
		Reason:          rev.Reason,
		EvidenceKey:     rev.EvidenceKey,
		Status:          rev.Status,
		DecisionNote:    rev.DecisionNote,
		DecidedBy:       rev.DecidedBy,
		DecidedAt:       rev.DecidedAt,
		CreatedAt:       rev.CreatedAt,
	}
}

func toRevisionResponses(items []repository.Revision) []transport.RevisionResponse {
	resp := make([]transport.RevisionResponse, len(items))
	for i := range items {
		resp[i] = toRevisionResponse(&items[i])
	}
	return resp
}
