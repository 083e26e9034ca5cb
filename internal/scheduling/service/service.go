package service

import (
	"context"
	"fmt"
	"time"

	"seminar_portal_backend/internal/events"
	"seminar_portal_backend/internal/scheduling/domain"
	"seminar_portal_backend/internal/scheduling/repository"
	"seminar_portal_backend/internal/scheduling/transport"
	seminardomain "seminar_portal_backend/internal/seminar/domain"
	"seminar_portal_backend/platform/apperr"
	"seminar_portal_backend/platform/config"
	"seminar_portal_backend/platform/logger"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// ApprovalLedger exposes the reconciled common dates for a fully approved
// seminar.
type ApprovalLedger interface {
	CommonDates(ctx context.Context, seminarID uuid.UUID) ([]time.Time, error)
}

// SeminarGate is the slice of the seminar service the scheduling flow needs.
type SeminarGate interface {
	Snapshot(ctx context.Context, seminarID uuid.UUID) (studentID uuid.UUID, title string, status seminardomain.SeminarStatus, err error)
	MarkScheduled(ctx context.Context, seminarID, actorID uuid.UUID) error
}

// QRStore persists rendered QR code images and returns their storage key.
type QRStore interface {
	UploadQRCode(ctx context.Context, scheduleID uuid.UUID, png []byte) (string, error)
}

// Service provides business logic for scheduling
type Service struct {
	repo      *repository.Repository
	approvals ApprovalLedger
	seminars  SeminarGate
	qrStore   QRStore
	eventBus  events.Bus
	policy    config.Policy
	log       *logger.Logger
}

// New creates a new scheduling service
func New(repo *repository.Repository, approvals ApprovalLedger, seminars SeminarGate, qrStore QRStore, eventBus events.Bus, policy config.Policy, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		approvals: approvals,
		seminars:  seminars,
		qrStore:   qrStore,
		eventBus:  eventBus,
		policy:    policy,
		log:       log,
	}
}

// Create places an approved seminar into a room and window. The chosen day
// must be one of the lecturers' reconciled common dates; the room window
// must be free. Racing a concurrent schedule of the same seminar resolves to
// the winner's schedule, not an error.
func (s *Service) Create(ctx context.Context, adminID uuid.UUID, req transport.CreateScheduleRequest) (*transport.ScheduleResponse, error) {
	seminarID, err := uuid.Parse(req.SeminarID)
	if err != nil {
		return nil, apperr.BadRequest("invalid seminarId format")
	}

	studentID, title, status, err := s.seminars.Snapshot(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	if status == seminardomain.StatusScheduled {
		// Idempotent replay: surface the existing schedule.
		existing, err := s.repo.GetBySeminar(ctx, seminarID)
		if err != nil {
			return nil, err
		}
		resp := toResponse(existing)
		return &resp, nil
	}
	if status != seminardomain.StatusApproved {
		return nil, apperr.Unprocessable(fmt.Sprintf("seminar in status %s cannot be scheduled", status))
	}

	commonDates, err := s.approvals.CommonDates(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	if !domain.ContainsDay(commonDates, req.StartTime) {
		return nil, apperr.Unprocessable("startTime is not one of the lecturers' common available dates")
	}

	duration := s.policy.DefaultDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	endTime := req.StartTime.Add(time.Duration(duration) * time.Minute)

	// Fast-path check; the exclusion constraint decides under concurrency.
	overlap, err := s.repo.HasRoomOverlap(ctx, req.Room, req.StartTime, endTime, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperr.Conflict("room is already booked for an overlapping window")
	}

	now := time.Now()
	schedule := &repository.Schedule{
		ID:        uuid.New(),
		SeminarID: seminarID,
		Room:      req.Room,
		StartTime: req.StartTime,
		EndTime:   endTime,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		QRToken:   uuid.New(),
		CreatedBy: adminID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	moved, err := s.repo.MarkSeminarScheduled(ctx, tx, seminarID)
	if err != nil {
		return nil, err
	}
	if !moved {
		// A concurrent writer won. Roll back and return their schedule.
		_ = tx.Rollback(ctx)
		existing, err := s.repo.GetBySeminar(ctx, seminarID)
		if err != nil {
			return nil, err
		}
		resp := toResponse(existing)
		return &resp, nil
	}

	if err := s.repo.Create(ctx, tx, schedule); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.seminars.MarkScheduled(ctx, seminarID, adminID); err != nil {
		s.log.Error("failed to record schedule history", "seminarId", seminarID, "error", err)
	}

	s.attachQRCode(ctx, schedule)

	s.publish(ctx, events.SeminarScheduled{
		BaseEvent:       events.NewBaseEvent(),
		SeminarID:       seminarID,
		ScheduleID:      schedule.ID,
		StudentID:       studentID,
		ActorID:         adminID,
		Title:           title,
		Room:            schedule.Room,
		StartTime:       schedule.StartTime,
		DurationMinutes: duration,
	})

	resp := toResponse(schedule)
	return &resp, nil
}

// attachQRCode renders and stores the attendance QR code. Failure here does
// not fail the scheduling; the token itself is already persisted and the
// image can be regenerated.
func (s *Service) attachQRCode(ctx context.Context, schedule *repository.Schedule) {
	if s.qrStore == nil {
		return
	}

	png, err := qrcode.Encode(schedule.QRToken.String(), qrcode.Medium, 512)
	if err != nil {
		s.log.Error("failed to render QR code", "scheduleId", schedule.ID, "error", err)
		return
	}

	key, err := s.qrStore.UploadQRCode(ctx, schedule.ID, png)
	if err != nil {
		s.log.Error("failed to store QR code", "scheduleId", schedule.ID, "error", err)
		return
	}

	if err := s.repo.SetQRFileKey(ctx, schedule.ID, key); err != nil {
		s.log.Error("failed to record QR file key", "scheduleId", schedule.ID, "error", err)
		return
	}
	schedule.QRFileKey = &key
}

// Reschedule moves an existing schedule to a new room or window.
func (s *Service) Reschedule(ctx context.Context, scheduleID, adminID uuid.UUID, req transport.RescheduleRequest) (*transport.ScheduleResponse, error) {
	schedule, err := s.repo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	oldRoom := schedule.Room
	oldStart := schedule.StartTime
	duration := schedule.EndTime.Sub(schedule.StartTime)

	if req.Room != nil {
		schedule.Room = *req.Room
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.DurationMinutes != nil {
		duration = time.Duration(*req.DurationMinutes) * time.Minute
	}
	schedule.EndTime = schedule.StartTime.Add(duration)
	if req.Latitude != nil {
		schedule.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		schedule.Longitude = *req.Longitude
	}

	overlap, err := s.repo.HasRoomOverlap(ctx, schedule.Room, schedule.StartTime, schedule.EndTime, schedule.ID)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperr.Conflict("room is already booked for an overlapping window")
	}

	tx, err := s.repo.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := s.repo.Update(ctx, tx, schedule); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	studentID, title, _, err := s.seminars.Snapshot(ctx, schedule.SeminarID)
	if err == nil {
		s.publish(ctx, events.SeminarRescheduled{
			BaseEvent:  events.NewBaseEvent(),
			SeminarID:  schedule.SeminarID,
			ScheduleID: schedule.ID,
			StudentID:  studentID,
			ActorID:    adminID,
			Title:      title,
			OldRoom:    oldRoom,
			NewRoom:    schedule.Room,
			OldStart:   oldStart,
			NewStart:   schedule.StartTime,
		})
	}

	resp := toResponse(schedule)
	return &resp, nil
}

// GetByID retrieves a schedule.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.ScheduleResponse, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(schedule)
	return &resp, nil
}

// GetBySeminar retrieves the schedule for a seminar.
func (s *Service) GetBySeminar(ctx context.Context, seminarID uuid.UUID) (*transport.ScheduleResponse, error) {
	schedule, err := s.repo.GetBySeminar(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(schedule)
	return &resp, nil
}

// ResolveQRToken resolves a scanned token to its schedule. Used by the
// attendance service.
func (s *Service) ResolveQRToken(ctx context.Context, token uuid.UUID) (*repository.Schedule, error) {
	return s.repo.GetByQRToken(ctx, token)
}

// ScheduleByID returns the raw schedule row. Used by the attendance service.
func (s *Service) ScheduleByID(ctx context.Context, id uuid.UUID) (*repository.Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUpcoming returns schedules starting within the window. Used by the
// reminder job.
func (s *Service) ListUpcoming(ctx context.Context, from, to time.Time) ([]repository.Schedule, error) {
	return s.repo.ListUpcoming(ctx, from, to)
}

// ReleaseForSeminar drops the schedule of a cancelled seminar, freeing the
// room window. Wired to the seminar cancellation event.
func (s *Service) ReleaseForSeminar(ctx context.Context, seminarID uuid.UUID) error {
	return s.repo.Delete(ctx, seminarID)
}

func (s *Service) publish(ctx context.Context, evt events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, evt)
	}
}

func toResponse(s *repository.Schedule) transport.ScheduleResponse {
	return transport.ScheduleResponse{
		ID:        s.ID,
		SeminarID: s.SeminarID,
		Room:      s.Room,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		QRToken:   s.QRToken,
		QRFileKey: s.QRFileKey,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
