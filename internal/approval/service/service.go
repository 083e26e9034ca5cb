package service

import (
	"context"
	"fmt"
	"time"

	approvaldomain "seminar_portal_backend/internal/approval/domain"
	"seminar_portal_backend/internal/approval/repository"
	"seminar_portal_backend/internal/approval/transport"
	"seminar_portal_backend/internal/events"
	schedulingdomain "seminar_portal_backend/internal/scheduling/domain"
	seminardomain "seminar_portal_backend/internal/seminar/domain"
	"seminar_portal_backend/platform/apperr"
	"seminar_portal_backend/platform/logger"
	"seminar_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

const dateFormat = "2006-01-02"

// SeminarGate is the slice of the seminar service the approval flow needs:
// looking up the seminar under decision and driving the two cancellation
// transitions a decision can trigger.
type SeminarGate interface {
	Snapshot(ctx context.Context, seminarID uuid.UUID) (studentID uuid.UUID, title string, status seminardomain.SeminarStatus, err error)
	RejectByLecturer(ctx context.Context, seminarID, lecturerID uuid.UUID, reason string) error
	CancelForScheduleConflict(ctx context.Context, seminarID uuid.UUID, reason string) error
}

// Service provides business logic for the approval ledger
type Service struct {
	repo     *repository.Repository
	seminars SeminarGate
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new approval service
func New(repo *repository.Repository, seminars SeminarGate, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		seminars: seminars,
		eventBus: eventBus,
		log:      log,
	}
}

// CreateApprovals opens one pending slot per assigned role. Called by the
// seminar service on submission.
func (s *Service) CreateApprovals(ctx context.Context, seminarID uuid.UUID, assignments map[seminardomain.Role]uuid.UUID) error {
	now := time.Now()
	approvals := make([]repository.Approval, 0, len(assignments))
	for _, role := range seminardomain.AllRoles {
		lecturerID, ok := assignments[role]
		if !ok {
			continue
		}
		approvals = append(approvals, repository.Approval{
			ID:         uuid.New(),
			SeminarID:  seminarID,
			LecturerID: lecturerID,
			Role:       string(role),
			Status:     string(seminardomain.ApprovalPending),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if len(approvals) == 0 {
		return apperr.BadRequest("at least one lecturer role must be assigned")
	}

	return s.repo.CreateBatch(ctx, approvals)
}

// ResetApprovals returns every slot on a seminar to pending after a revised
// resubmission, and records the reset in the trail.
func (s *Service) ResetApprovals(ctx context.Context, seminarID uuid.UUID) error {
	approvals, err := s.repo.ListBySeminar(ctx, seminarID)
	if err != nil {
		return err
	}

	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.repo.ResetAll(ctx, tx, seminarID); err != nil {
		return err
	}
	now := time.Now()
	for _, a := range approvals {
		if a.Status == string(seminardomain.ApprovalPending) {
			continue
		}
		err := s.repo.AppendHistory(ctx, tx, &repository.HistoryEntry{
			ID:         uuid.New(),
			ApprovalID: a.ID,
			SeminarID:  seminarID,
			LecturerID: a.LecturerID,
			Role:       a.Role,
			Action:     "reset",
			CreatedAt:  now,
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Respond records a lecturer's decision on their slot. Decisions are final:
// a slot that already carries a decision rejects further responses. On the
// last approval the lecturers' dates are reconciled; an empty intersection
// cancels the seminar. A rejection cancels it immediately.
func (s *Service) Respond(ctx context.Context, seminarID, lecturerID uuid.UUID, req transport.RespondApprovalRequest) (*transport.ApprovalResponse, error) {
	decision, err := seminardomain.ParseApprovalStatus(req.Decision)
	if err != nil {
		return nil, err
	}
	if decision == seminardomain.ApprovalPending {
		return nil, apperr.BadRequest("decision must be approve or reject")
	}

	availableDates, err := parseDates(req.AvailableDates)
	if err != nil {
		return nil, err
	}
	if decision == seminardomain.ApprovalApproved && len(availableDates) == 0 {
		return nil, apperr.BadRequest("availableDates is required when approving")
	}

	studentID, title, status, err := s.seminars.Snapshot(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	switch status {
	case seminardomain.StatusPendingVerification, seminardomain.StatusApproved:
	default:
		return nil, apperr.Unprocessable(fmt.Sprintf("seminar in status %s does not accept approval decisions", status))
	}

	note := sanitize.TextPtr(req.Note)
	if decision == seminardomain.ApprovalRejected && (note == nil || *note == "") {
		return nil, apperr.BadRequest("note is required when rejecting")
	}

	updated, state, commonDates, err := s.applyDecision(ctx, seminarID, lecturerID, decision, note, availableDates)
	if err != nil {
		return nil, err
	}

	s.log.ApprovalDecision(seminarID.String(), lecturerID.String(), updated.Role, string(decision))
	s.publish(ctx, events.ApprovalDecided{
		BaseEvent:  events.NewBaseEvent(),
		ApprovalID: updated.ID,
		SeminarID:  seminarID,
		StudentID:  studentID,
		LecturerID: lecturerID,
		Role:       updated.Role,
		Decision:   string(decision),
		Title:      title,
	})

	switch {
	case decision == seminardomain.ApprovalRejected:
		if err := s.seminars.RejectByLecturer(ctx, seminarID, lecturerID, derefOrEmpty(note)); err != nil {
			return nil, err
		}
	case state.AllApproved && len(commonDates) == 0:
		if err := s.seminars.CancelForScheduleConflict(ctx, seminarID, "lecturers share no common available date"); err != nil {
			return nil, err
		}
		s.publish(ctx, events.ScheduleConflict{
			BaseEvent: events.NewBaseEvent(),
			SeminarID: seminarID,
			StudentID: studentID,
			Title:     title,
		})
	case state.AllApproved:
		s.publish(ctx, events.ApprovalConsensusReached{
			BaseEvent:   events.NewBaseEvent(),
			SeminarID:   seminarID,
			StudentID:   studentID,
			Title:       title,
			CommonDates: commonDates,
		})
	}

	resp := toResponse(updated)
	return &resp, nil
}

// applyDecision runs the transactional part of Respond: lock the slots,
// record the decision and its history row, and compute the consensus state
// from the locked rows.
func (s *Service) applyDecision(
	ctx context.Context,
	seminarID, lecturerID uuid.UUID,
	decision seminardomain.ApprovalStatus,
	note *string,
	availableDates []time.Time,
) (*repository.Approval, approvaldomain.AggregateState, []time.Time, error) {
	var zero approvaldomain.AggregateState

	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return nil, zero, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	approvals, err := s.repo.ListBySeminarForUpdate(ctx, tx, seminarID)
	if err != nil {
		return nil, zero, nil, err
	}

	var target *repository.Approval
	for i := range approvals {
		if approvals[i].LecturerID == lecturerID {
			target = &approvals[i]
			break
		}
	}
	if target == nil {
		return nil, zero, nil, apperr.Forbidden("no approval slot assigned to this lecturer")
	}

	decided, err := s.repo.Decide(ctx, tx, target.ID, string(decision), note, availableDates)
	if err != nil {
		return nil, zero, nil, err
	}
	if !decided {
		return nil, zero, nil, apperr.Unprocessable("approval has already been decided")
	}

	err = s.repo.AppendHistory(ctx, tx, &repository.HistoryEntry{
		ID:         uuid.New(),
		ApprovalID: target.ID,
		SeminarID:  seminarID,
		LecturerID: lecturerID,
		Role:       target.Role,
		Action:     string(decision),
		Note:       note,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return nil, zero, nil, err
	}

	// Reflect the decision in the locked snapshot before aggregating.
	target.Status = string(decision)
	target.Note = note
	target.AvailableDates = availableDates
	now := time.Now()
	target.DecidedAt = &now

	decisions := make([]approvaldomain.Decision, 0, len(approvals))
	dateLists := make([][]time.Time, 0, len(approvals))
	for i := range approvals {
		decisions = append(decisions, approvaldomain.Decision{
			Role:   seminardomain.Role(approvals[i].Role),
			Status: seminardomain.ApprovalStatus(approvals[i].Status),
		})
		dateLists = append(dateLists, approvals[i].AvailableDates)
	}
	state := approvaldomain.Aggregate(decisions)

	var commonDates []time.Time
	if state.AllApproved {
		commonDates = schedulingdomain.CommonDates(dateLists...)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, zero, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return target, state, commonDates, nil
}

// GetForSeminar returns a seminar's approval slots plus the consensus
// summary, including the reconciled common dates once everyone approved.
func (s *Service) GetForSeminar(ctx context.Context, seminarID uuid.UUID) (*transport.SeminarApprovalsResponse, error) {
	approvals, err := s.repo.ListBySeminar(ctx, seminarID)
	if err != nil {
		return nil, err
	}

	decisions := make([]approvaldomain.Decision, 0, len(approvals))
	dateLists := make([][]time.Time, 0, len(approvals))
	items := make([]transport.ApprovalResponse, len(approvals))
	for i := range approvals {
		decisions = append(decisions, approvaldomain.Decision{
			Role:   seminardomain.Role(approvals[i].Role),
			Status: seminardomain.ApprovalStatus(approvals[i].Status),
		})
		dateLists = append(dateLists, approvals[i].AvailableDates)
		items[i] = toResponse(&approvals[i])
	}
	state := approvaldomain.Aggregate(decisions)

	resp := &transport.SeminarApprovalsResponse{
		SeminarID:   seminarID,
		Approvals:   items,
		AllApproved: state.AllApproved,
		AnyRejected: state.AnyRejected,
	}
	for _, role := range state.PendingRoles {
		resp.PendingRoles = append(resp.PendingRoles, string(role))
	}
	if state.AllApproved {
		resp.CommonDates = schedulingdomain.CommonDates(dateLists...)
	}

	return resp, nil
}

// CommonDates returns the reconciled dates for a fully approved seminar, or
// an error while any decision is outstanding. Used by the scheduling service
// to validate the chosen date.
func (s *Service) CommonDates(ctx context.Context, seminarID uuid.UUID) ([]time.Time, error) {
	summary, err := s.GetForSeminar(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	if !summary.AllApproved {
		return nil, apperr.Unprocessable("not all lecturer approvals are in")
	}
	return summary.CommonDates, nil
}

// ListPending returns the slots still awaiting the lecturer's decision.
func (s *Service) ListPending(ctx context.Context, lecturerID uuid.UUID) ([]transport.ApprovalResponse, error) {
	approvals, err := s.repo.ListPendingByLecturer(ctx, lecturerID)
	if err != nil {
		return nil, err
	}

	items := make([]transport.ApprovalResponse, len(approvals))
	for i := range approvals {
		items[i] = toResponse(&approvals[i])
	}
	return items, nil
}

// GetHistory returns the approval trail for a seminar, oldest first.
func (s *Service) GetHistory(ctx context.Context, seminarID uuid.UUID) ([]transport.HistoryEntryResponse, error) {
	entries, err := s.repo.ListHistory(ctx, seminarID)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.HistoryEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = transport.HistoryEntryResponse{
			ID:         e.ID,
			ApprovalID: e.ApprovalID,
			SeminarID:  e.SeminarID,
			LecturerID: e.LecturerID,
			Role:       e.Role,
			Action:     e.Action,
			Note:       e.Note,
			CreatedAt:  e.CreatedAt,
		}
	}
	return resp, nil
}

func (s *Service) publish(ctx context.Context, evt events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, evt)
	}
}

func parseDates(raw []string) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dates := make([]time.Time, 0, len(raw))
	for _, value := range raw {
		parsed, err := time.Parse(dateFormat, value)
		if err != nil {
			return nil, apperr.BadRequest(fmt.Sprintf("invalid date: %s", value))
		}
		dates = append(dates, parsed)
	}
	return dates, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toResponse(a *repository.Approval) transport.ApprovalResponse {
	return transport.ApprovalResponse{
		ID:             a.ID,
		SeminarID:      a.SeminarID,
		LecturerID:     a.LecturerID,
		Role:           a.Role,
		Status:         a.Status,
		Note:           a.Note,
		AvailableDates: a.AvailableDates,
		DecidedAt:      a.DecidedAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
