package service

import (
	"context"
	"fmt"
	"time"

	"seminar_portal_backend/internal/events"
	"seminar_portal_backend/internal/seminar/domain"
	"seminar_portal_backend/internal/seminar/repository"
	"seminar_portal_backend/internal/seminar/transport"
	"seminar_portal_backend/platform/apperr"
	"seminar_portal_backend/platform/logger"
	"seminar_portal_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// History action constants. These are the canonical verbs written to the
// append-only verification trail.
const (
	historySubmitted   = "submitted"
	historyVerified    = "verified"
	historySentBack    = "sent_back"
	historyResubmitted = "resubmitted"
	historyRejected    = "rejected"
	historyCancelled   = "cancelled"
	historyScheduled   = "scheduled"
	historyFinished    = "finished"
)

// ApprovalManager creates and resets the per-role approval slots that gate
// scheduling. Implemented by the approval service.
type ApprovalManager interface {
	CreateApprovals(ctx context.Context, seminarID uuid.UUID, assignments map[domain.Role]uuid.UUID) error
	ResetApprovals(ctx context.Context, seminarID uuid.UUID) error
}

// Service provides business logic for the seminar lifecycle
type Service struct {
	repo      *repository.Repository
	approvals ApprovalManager
	eventBus  events.Bus
	log       *logger.Logger
}

// New creates a new seminar service
func New(repo *repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		log:      log,
	}
}

// SetApprovalManager wires the approval collaborator. Set after construction
// because the approval service also depends on this one.
func (s *Service) SetApprovalManager(approvals ApprovalManager) {
	s.approvals = approvals
}

// Create registers a new draft seminar for a student.
func (s *Service) Create(ctx context.Context, studentID uuid.UUID, req transport.CreateSeminarRequest) (*transport.SeminarResponse, error) {
	seminarType, err := domain.ParseSeminarType(req.Type)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.HasActiveSeminar(ctx, studentID, string(seminarType))
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperr.Conflict(fmt.Sprintf("an active %s seminar already exists", seminarType))
	}

	advisor1, err := parseOptionalUUID(req.Advisor1ID, "advisor1Id")
	if err != nil {
		return nil, err
	}
	advisor2, err := parseOptionalUUID(req.Advisor2ID, "advisor2Id")
	if err != nil {
		return nil, err
	}
	examiner, err := parseOptionalUUID(req.ExaminerID, "examinerId")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	seminar := &repository.Seminar{
		ID:         uuid.New(),
		StudentID:  studentID,
		Title:      sanitize.Text(req.Title),
		Type:       string(seminarType),
		Abstract:   sanitize.TextPtr(req.Abstract),
		FileKey:    req.FileKey,
		Status:     string(domain.StatusDraft),
		Advisor1ID: advisor1,
		Advisor2ID: advisor2,
		ExaminerID: examiner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, seminar); err != nil {
		return nil, err
	}

	resp := toResponse(seminar)
	return &resp, nil
}

// Submit moves a draft into verification. All three lecturer roles must be
// assigned; the assignments are locked in and one approval slot opens per
// role.
func (s *Service) Submit(ctx context.Context, seminarID, studentID uuid.UUID, req transport.SubmitSeminarRequest) (*transport.SeminarResponse, error) {
	advisor1, err := uuid.Parse(req.Advisor1ID)
	if err != nil {
		return nil, apperr.BadRequest("invalid advisor1Id format")
	}
	advisor2, err := uuid.Parse(req.Advisor2ID)
	if err != nil {
		return nil, apperr.BadRequest("invalid advisor2Id format")
	}
	examiner, err := uuid.Parse(req.ExaminerID)
	if err != nil {
		return nil, apperr.BadRequest("invalid examinerId format")
	}

	assignments := map[domain.Role]uuid.UUID{
		domain.RoleAdvisor1: advisor1,
		domain.RoleAdvisor2: advisor2,
		domain.RoleExaminer: examiner,
	}
	if err := ensureDistinctLecturers(assignments); err != nil {
		return nil, err
	}

	seminar, err := s.transition(ctx, seminarID, domain.EventSubmit, studentID, nil, func(sem *repository.Seminar) {
		sem.Advisor1ID = &advisor1
		sem.Advisor2ID = &advisor2
		sem.ExaminerID = &examiner
	}, historySubmitted, func(tx pgx.Tx, sem *repository.Seminar) error {
		if sem.StudentID != studentID {
			return apperr.Forbidden("not authorized to submit this seminar")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.approvals != nil {
		if err := s.approvals.CreateApprovals(ctx, seminarID, assignments); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.SeminarSubmitted{
		BaseEvent:   events.NewBaseEvent(),
		SeminarID:   seminar.ID,
		StudentID:   seminar.StudentID,
		Title:       seminar.Title,
		SeminarType: seminar.Type,
		LecturerIDs: seminar.AssignedLecturers(),
	})
	s.log.SeminarTransition(seminar.ID.String(), string(domain.StatusDraft), seminar.Status, studentID.String())

	resp := toResponse(seminar)
	return &resp, nil
}

// Verify is the administrator's approval of a pending submission.
func (s *Service) Verify(ctx context.Context, seminarID, adminID uuid.UUID, req transport.VerifySeminarRequest) (*transport.SeminarResponse, error) {
	note := sanitize.TextPtr(req.Note)
	seminar, err := s.transition(ctx, seminarID, domain.EventVerify, adminID, note, func(sem *repository.Seminar) {
		now := time.Now()
		sem.VerifiedAt = &now
	}, historyVerified, nil)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.SeminarVerified{
		BaseEvent:   events.NewBaseEvent(),
		SeminarID:   seminar.ID,
		StudentID:   seminar.StudentID,
		Title:       seminar.Title,
		VerifiedBy:  adminID,
		LecturerIDs: seminar.AssignedLecturers(),
	})
	s.log.SeminarTransition(seminar.ID.String(), string(domain.StatusPendingVerification), seminar.Status, adminID.String())

	resp := toResponse(seminar)
	return &resp, nil
}

// SendBack returns a pending submission to the student for corrections.
func (s *Service) SendBack(ctx context.Context, seminarID, adminID uuid.UUID, req transport.SendBackSeminarRequest) (*transport.SeminarResponse, error) {
	reason := sanitize.Text(req.Reason)
	seminar, err := s.transition(ctx, seminarID, domain.EventSendBack, adminID, &reason, nil, historySentBack, nil)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.SeminarRejected{
		BaseEvent: events.NewBaseEvent(),
		SeminarID: seminar.ID,
		StudentID: seminar.StudentID,
		Title:     seminar.Title,
		ActorID:   adminID,
		ActorRole: "admin",
		Reason:    reason,
	})
	s.log.SeminarTransition(seminar.ID.String(), string(domain.StatusPendingVerification), seminar.Status, adminID.String())

	resp := toResponse(seminar)
	return &resp, nil
}

// Resubmit sends a revised submission back into verification and resets all
// approval slots to pending, so every lecturer decides again on the new
// material.
func (s *Service) Resubmit(ctx context.Context, seminarID, studentID uuid.UUID, req transport.ResubmitSeminarRequest) (*transport.SeminarResponse, error) {
	seminar, err := s.repo.GetByID(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	if seminar.StudentID != studentID {
		return nil, apperr.Forbidden("not authorized to resubmit this seminar")
	}

	current := domain.SeminarStatus(seminar.Status)
	next, err := domain.Next(current, domain.EventResubmit)
	if err != nil {
		return nil, stateError(err)
	}

	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	title := sanitize.Text(req.Title)
	abstract := sanitize.TextPtr(req.Abstract)
	if err := s.repo.Resubmit(ctx, tx, seminarID, title, abstract, req.FileKey, string(next)); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, tx, seminarID, historyResubmitted, studentID, nil); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.approvals != nil {
		if err := s.approvals.ResetApprovals(ctx, seminarID); err != nil {
			return nil, err
		}
	}

	seminar, err = s.repo.GetByID(ctx, seminarID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.SeminarSubmitted{
		BaseEvent:   events.NewBaseEvent(),
		SeminarID:   seminar.ID,
		StudentID:   seminar.StudentID,
		Title:       seminar.Title,
		SeminarType: seminar.Type,
		LecturerIDs: seminar.AssignedLecturers(),
	})
	s.log.SeminarTransition(seminar.ID.String(), string(current), seminar.Status, studentID.String())

	resp := toResponse(seminar)
	return &resp, nil
}

// Cancel cancels a seminar on behalf of the student or an administrator.
func (s *Service) Cancel(ctx context.Context, seminarID, actorID uuid.UUID, actorRole string, req transport.CancelSeminarRequest) (*transport.SeminarResponse, error) {
	reason := sanitize.Text(req.Reason)
	seminar, err := s.transition(ctx, seminarID, domain.EventCancel, actorID, &reason, func(sem *repository.Seminar) {
		now := time.Now()
		sem.CancelledAt = &now
		sem.CancelReason = &reason
	}, historyCancelled, func(tx pgx.Tx, sem *repository.Seminar) error {
		if actorRole != "admin" && sem.StudentID != actorID {
			return apperr.Forbidden("not authorized to cancel this seminar")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishCancelled(ctx, seminar, actorID, actorRole, reason)

	resp := toResponse(seminar)
	return &resp, nil
}

// RejectByLecturer cancels a seminar because one of its lecturers rejected
// the approval request. Called by the approval service inside its decision
// flow.
func (s *Service) RejectByLecturer(ctx context.Context, seminarID, lecturerID uuid.UUID, reason string) error {
	seminar, err := s.transition(ctx, seminarID, domain.EventLecturerReject, lecturerID, &reason, func(sem *repository.Seminar) {
		now := time.Now()
		sem.CancelledAt = &now
		sem.CancelReason = &reason
	}, historyRejected, nil)
	if err != nil {
		return err
	}

	s.publish(ctx, events.SeminarRejected{
		BaseEvent: events.NewBaseEvent(),
		SeminarID: seminar.ID,
		StudentID: seminar.StudentID,
		Title:     seminar.Title,
		ActorID:   lecturerID,
		ActorRole: "lecturer",
		Reason:    reason,
	})
	s.log.SeminarTransition(seminar.ID.String(), "", seminar.Status, lecturerID.String())

	return nil
}

// CancelForScheduleConflict cancels a seminar whose lecturers share no
// common available date. Called by the approval service when the last
// decision leaves an empty intersection. Legal from pending_verification
// as well as approved, since the last approval can land before the admin
// verifies.
func (s *Service) CancelForScheduleConflict(ctx context.Context, seminarID uuid.UUID, reason string) error {
	seminar, err := s.transition(ctx, seminarID, domain.EventScheduleConflict, seminarID, &reason, func(sem *repository.Seminar) {
		now := time.Now()
		sem.CancelledAt = &now
		sem.CancelReason = &reason
	}, historyCancelled, nil)
	if err != nil {
		return err
	}

	s.publishCancelled(ctx, seminar, uuid.Nil, "system", reason)
	return nil
}

// MarkScheduled records the schedule transition and its history entry after
// the scheduling service has flipped the status row. It does not run the
// state machine again; the conditional update already enforced it.
func (s *Service) MarkScheduled(ctx context.Context, seminarID, actorID uuid.UUID) error {
	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.appendHistory(ctx, tx, seminarID, historyScheduled, actorID, nil); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Finish closes out a held seminar. Blocked while any revision item remains
// unaccepted.
func (s *Service) Finish(ctx context.Context, seminarID, lecturerID uuid.UUID, req transport.FinishSeminarRequest) (*transport.SeminarResponse, error) {
	open, err := s.repo.CountOpenRevisionItems(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, apperr.Unprocessable(fmt.Sprintf("%d revision item(s) still open", open))
	}

	note := sanitize.TextPtr(req.Note)
	seminar, err := s.transition(ctx, seminarID, domain.EventFinish, lecturerID, note, nil, historyFinished, func(tx pgx.Tx, sem *repository.Seminar) error {
		if !isAssignedLecturer(sem, lecturerID) {
			return apperr.Forbidden("not authorized to finish this seminar")
		}
		if req.Score != nil || note != nil {
			return s.repo.SetFinalAssessment(ctx, tx, seminarID, req.Score, note)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.SeminarFinished{
		BaseEvent:  events.NewBaseEvent(),
		SeminarID:  seminar.ID,
		StudentID:  seminar.StudentID,
		Title:      seminar.Title,
		FinishedBy: lecturerID,
		Score:      req.Score,
	})
	s.log.SeminarTransition(seminar.ID.String(), string(domain.StatusScheduled), seminar.Status, lecturerID.String())

	resp := toResponse(seminar)
	return &resp, nil
}

// LecturerRole returns the role a lecturer holds on a seminar, or an empty
// string when not assigned.
func (s *Service) LecturerRole(ctx context.Context, seminarID, lecturerID uuid.UUID) (string, error) {
	seminar, err := s.repo.GetByID(ctx, seminarID)
	if err != nil {
		return "", err
	}
	switch {
	case seminar.Advisor1ID != nil && *seminar.Advisor1ID == lecturerID:
		return string(domain.RoleAdvisor1), nil
	case seminar.Advisor2ID != nil && *seminar.Advisor2ID == lecturerID:
		return string(domain.RoleAdvisor2), nil
	case seminar.ExaminerID != nil && *seminar.ExaminerID == lecturerID:
		return string(domain.RoleExaminer), nil
	}
	return "", nil
}

// AssignedLecturers returns the IDs of the lecturers assigned to a seminar.
// Used by the notification fan-out.
func (s *Service) AssignedLecturers(ctx context.Context, seminarID uuid.UUID) ([]uuid.UUID, error) {
	seminar, err := s.repo.GetByID(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	return seminar.AssignedLecturers(), nil
}

// Snapshot returns the minimal read-only view other modules need when
// deciding against a seminar.
func (s *Service) Snapshot(ctx context.Context, seminarID uuid.UUID) (uuid.UUID, string, domain.SeminarStatus, error) {
	seminar, err := s.repo.GetByID(ctx, seminarID)
	if err != nil {
		return uuid.Nil, "", "", err
	}
	return seminar.StudentID, seminar.Title, domain.SeminarStatus(seminar.Status), nil
}

// GetByID retrieves a seminar, enforcing that the caller is the owning
// student, an assigned lecturer, or an administrator.
func (s *Service) GetByID(ctx context.Context, seminarID, callerID uuid.UUID, isAdmin bool) (*transport.SeminarResponse, error) {
	seminar, err := s.ensureAccess(ctx, seminarID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	resp := toResponse(seminar)
	return &resp, nil
}

// List retrieves seminars visible to the caller. Students see their own,
// lecturers see seminars they are assigned to, admins see everything.
func (s *Service) List(ctx context.Context, callerID uuid.UUID, callerRole string, req transport.ListSeminarsRequest) (*transport.SeminarListResponse, error) {
	params := repository.ListParams{
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}

	switch callerRole {
	case "admin":
	case "lecturer":
		params.LecturerID = &callerID
	default:
		params.StudentID = &callerID
	}

	if req.Status != nil && *req.Status != "" {
		status, err := domain.ParseSeminarStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		value := string(status)
		params.Status = &value
	}
	if req.Type != nil && *req.Type != "" {
		seminarType, err := domain.ParseSeminarType(*req.Type)
		if err != nil {
			return nil, err
		}
		value := string(seminarType)
		params.Type = &value
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.SeminarResponse, len(result.Items))
	for i := range result.Items {
		items[i] = toResponse(&result.Items[i])
	}

	return &transport.SeminarListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// GetHistory returns the verification trail, oldest first.
func (s *Service) GetHistory(ctx context.Context, seminarID, callerID uuid.UUID, isAdmin bool) ([]transport.HistoryEntryResponse, error) {
	if _, err := s.ensureAccess(ctx, seminarID, callerID, isAdmin); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListHistory(ctx, seminarID)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.HistoryEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = transport.HistoryEntryResponse{
			ID:        e.ID,
			SeminarID: e.SeminarID,
			Action:    e.Action,
			ActorID:   e.ActorID,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		}
	}
	return resp, nil
}

// transition runs a state machine event against a seminar inside a
// transaction: row lock, guard, status update, history entry, commit.
func (s *Service) transition(
	ctx context.Context,
	seminarID uuid.UUID,
	event domain.TransitionEvent,
	actorID uuid.UUID,
	note *string,
	mutate func(*repository.Seminar),
	historyAction string,
	guard func(pgx.Tx, *repository.Seminar) error,
) (*repository.Seminar, error) {
	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	seminar, err := s.repo.GetForUpdate(ctx, tx, seminarID)
	if err != nil {
		return nil, err
	}

	if guard != nil {
		if err := guard(tx, seminar); err != nil {
			return nil, err
		}
	}

	next, err := domain.Next(domain.SeminarStatus(seminar.Status), event)
	if err != nil {
		return nil, stateError(err)
	}

	seminar.Status = string(next)
	if mutate != nil {
		mutate(seminar)
	}

	if err := s.repo.UpdateStatus(ctx, tx, seminar); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, tx, seminarID, historyAction, actorID, note); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return seminar, nil
}

func (s *Service) appendHistory(ctx context.Context, tx pgx.Tx, seminarID uuid.UUID, action string, actorID uuid.UUID, note *string) error {
	return s.repo.AppendHistory(ctx, tx, &repository.HistoryEntry{
		ID:        uuid.New(),
		SeminarID: seminarID,
		Action:    action,
		ActorID:   actorID,
		Note:      note,
		CreatedAt: time.Now(),
	})
}

func (s *Service) ensureAccess(ctx context.Context, seminarID, callerID uuid.UUID, isAdmin bool) (*repository.Seminar, error) {
	seminar, err := s.repo.GetByID(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && seminar.StudentID != callerID && !isAssignedLecturer(seminar, callerID) {
		return nil, apperr.Forbidden("not authorized to access this seminar")
	}
	return seminar, nil
}

func (s *Service) publish(ctx context.Context, evt events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, evt)
	}
}

func (s *Service) publishCancelled(ctx context.Context, seminar *repository.Seminar, actorID uuid.UUID, actorRole, reason string) {
	s.publish(ctx, events.SeminarCancelled{
		BaseEvent:   events.NewBaseEvent(),
		SeminarID:   seminar.ID,
		StudentID:   seminar.StudentID,
		Title:       seminar.Title,
		ActorID:     actorID,
		ActorRole:   actorRole,
		Reason:      reason,
		LecturerIDs: seminar.AssignedLecturers(),
	})
	s.log.SeminarTransition(seminar.ID.String(), "", seminar.Status, actorID.String())
}

// stateError maps domain state machine failures onto the API error taxonomy.
func stateError(err error) error {
	return apperr.Wrap(apperr.KindUnprocessable, err.Error(), err)
}

func isAssignedLecturer(seminar *repository.Seminar, lecturerID uuid.UUID) bool {
	for _, id := range seminar.AssignedLecturers() {
		if id == lecturerID {
			return true
		}
	}
	return false
}

func ensureDistinctLecturers(assignments map[domain.Role]uuid.UUID) error {
	seen := make(map[uuid.UUID]domain.Role, len(assignments))
	for role, id := range assignments {
		if _, dup := seen[id]; dup {
			return apperr.BadRequest("a lecturer cannot hold more than one role on the same seminar")
		}
		seen[id] = role
	}
	return nil
}

func parseOptionalUUID(value *string, field string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(*value)
	if err != nil {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid %s format", field))
	}
	return &parsed, nil
}

func clampPageSize(size int) int {
	if size < 1 || size > 100 {
		return 50
	}
	return size
}

func toResponse(s *repository.Seminar) transport.SeminarResponse {
	return transport.SeminarResponse{
		ID:              s.ID,
		StudentID:       s.StudentID,
		Title:           s.Title,
		Type:            s.Type,
		Abstract:        s.Abstract,
		FileKey:         s.FileKey,
		Status:          s.Status,
		Score:           s.Score,
		Advisor1ID:      s.Advisor1ID,
		Advisor2ID:      s.Advisor2ID,
		ExaminerID:      s.ExaminerID,
		VerifiedAt:      s.VerifiedAt,
		CancelledAt:     s.CancelledAt,
		CancelReason:    s.CancelReason,
		FinalNote:       s.FinalNote,
		FinalAssessedAt: s.FinalAssessedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
