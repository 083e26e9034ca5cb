package service

import (
	"context"
	"time"

	"seminar_portal_backend/internal/attendance/domain"
	"seminar_portal_backend/internal/attendance/repository"
	"seminar_portal_backend/internal/attendance/transport"
	"seminar_portal_backend/internal/events"
	schedulingrepo "seminar_portal_backend/internal/scheduling/repository"
	"seminar_portal_backend/platform/apperr"
	"seminar_portal_backend/platform/config"
	"seminar_portal_backend/platform/logger"
	"seminar_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Attendance methods.
const (
	methodQRScan = "qr_scan"
	methodManual = "manual"
)

// Revision request statuses.
const (
	revisionPending  = "pending"
	revisionApproved = "approved"
	revisionRejected = "rejected"
)

// ScheduleResolver resolves scanned tokens and schedule IDs to schedule
// rows. Implemented by the scheduling service.
type ScheduleResolver interface {
	ResolveQRToken(ctx context.Context, token uuid.UUID) (*schedulingrepo.Schedule, error)
	ScheduleByID(ctx context.Context, id uuid.UUID) (*schedulingrepo.Schedule, error)
}

// SeminarGate answers which role, if any, a lecturer holds on a seminar.
type SeminarGate interface {
	LecturerRole(ctx context.Context, seminarID, lecturerID uuid.UUID) (string, error)
}

// Service provides business logic for attendance tracking
type Service struct {
	repo      *repository.Repository
	schedules ScheduleResolver
	seminars  SeminarGate
	eventBus  events.Bus
	policy    config.Policy
	log       *logger.Logger
}

// New creates a new attendance service
func New(repo *repository.Repository, schedules ScheduleResolver, seminars SeminarGate, eventBus events.Bus, policy config.Policy, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		schedules: schedules,
		seminars:  seminars,
		eventBus:  eventBus,
		policy:    policy,
		log:       log,
	}
}

func (s *Service) windowPolicy() domain.WindowPolicy {
	return domain.WindowPolicy{
		GraceBefore: s.policy.GraceBefore(),
		GraceAfter:  s.policy.GraceAfter(),
		LateAfter:   s.policy.LateAfter(),
	}
}

// Scan validates a student's QR scan and records the outcome. Checks run in
// a fixed order: token, window, geofence, duplicate. A scan outside the
// geofence is still recorded, as invalid, so the student can contest it;
// with a fallback reason it lands as a manual entry for an admin to settle.
func (s *Service) Scan(ctx context.Context, studentID uuid.UUID, req transport.ScanRequest) (*transport.AttendanceResponse, error) {
	token, err := uuid.Parse(req.Token)
	if err != nil {
		return nil, apperr.BadRequest("invalid attendance token")
	}

	schedule, err := s.schedules.ResolveQRToken(ctx, token)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil, apperr.BadRequest("invalid attendance token")
		}
		return nil, err
	}

	now := time.Now()
	status, inWindow := s.windowPolicy().ClassifyScan(now, schedule.StartTime, schedule.EndTime)
	if !inWindow {
		return nil, apperr.Unprocessable("scan is outside the attendance window")
	}

	inFence, distance := domain.WithinGeofence(
		req.Latitude, req.Longitude,
		schedule.Latitude, schedule.Longitude,
		s.policy.GeofenceRadiusMeters,
	)
	note := sanitize.TextPtr(req.FallbackReason)
	hasFallback := note != nil && *note != ""
	outcome := domain.ResolveScan(status, inFence, hasFallback)

	method := methodQRScan
	if outcome.Manual {
		method = methodManual
	}

	attendance := &repository.Attendance{
		ID:         uuid.New(),
		ScheduleID: schedule.ID,
		SeminarID:  schedule.SeminarID,
		StudentID:  studentID,
		Status:     string(outcome.Status),
		Method:     method,
		Note:       note,
		ScanLat:    &req.Latitude,
		ScanLon:    &req.Longitude,
		DistanceM:  &distance,
		ScannedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, attendance); err != nil {
		return nil, err
	}

	s.log.AttendanceScan(schedule.ID.String(), studentID.String(), attendance.Status, distance)
	s.publish(ctx, events.AttendanceRecorded{
		BaseEvent:    events.NewBaseEvent(),
		AttendanceID: attendance.ID,
		ScheduleID:   schedule.ID,
		SeminarID:    schedule.SeminarID,
		StudentID:    studentID,
		Status:       attendance.Status,
		Method:       method,
		DistanceM:    distance,
	})

	resp := toResponse(attendance)
	return &resp, nil
}

// ManualEntry records attendance on a student's behalf. Admin-only; skips
// the token and geofence checks and accepts any window.
func (s *Service) ManualEntry(ctx context.Context, adminID uuid.UUID, req transport.ManualEntryRequest) (*transport.AttendanceResponse, error) {
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, apperr.BadRequest("invalid scheduleId format")
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return nil, apperr.BadRequest("invalid studentId format")
	}

	schedule, err := s.schedules.ScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	attendance := &repository.Attendance{
		ID:         uuid.New(),
		ScheduleID: schedule.ID,
		SeminarID:  schedule.SeminarID,
		StudentID:  studentID,
		Status:     req.Status,
		Method:     methodManual,
		Note:       sanitize.TextPtr(req.Note),
		RecordedBy: &adminID,
		ScannedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, attendance); err != nil {
		return nil, err
	}

	s.publish(ctx, events.AttendanceRecorded{
		BaseEvent:    events.NewBaseEvent(),
		AttendanceID: attendance.ID,
		ScheduleID:   schedule.ID,
		SeminarID:    schedule.SeminarID,
		StudentID:    studentID,
		Status:       attendance.Status,
		Method:       methodManual,
	})

	resp := toResponse(attendance)
	return &resp, nil
}

// GetOwn returns a student's attendance record for a schedule.
func (s *Service) GetOwn(ctx context.Context, scheduleID, studentID uuid.UUID) (*transport.AttendanceResponse, error) {
	attendance, err := s.repo.GetByScheduleAndStudent(ctx, scheduleID, studentID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(attendance)
	return &resp, nil
}

// ListBySchedule returns all records for a schedule.
func (s *Service) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]transport.AttendanceResponse, error) {
	attendances, err := s.repo.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return toResponses(attendances), nil
}

// ListByStudent returns a student's attendance history.
func (s *Service) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]transport.AttendanceResponse, error) {
	attendances, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toResponses(attendances), nil
}

// LecturerCheckIn records a lecturer's presence at a schedule. The lecturer
// must hold a role on the seminar.
func (s *Service) LecturerCheckIn(ctx context.Context, lecturerID uuid.UUID, req transport.LecturerCheckInRequest) (*transport.LecturerAttendanceResponse, error) {
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, apperr.BadRequest("invalid scheduleId format")
	}

	schedule, err := s.schedules.ScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	role, err := s.seminars.LecturerRole(ctx, schedule.SeminarID, lecturerID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, apperr.Forbidden("not assigned to this seminar")
	}

	now := time.Now()
	la := &repository.LecturerAttendance{
		ID:          uuid.New(),
		ScheduleID:  schedule.ID,
		SeminarID:   schedule.SeminarID,
		LecturerID:  lecturerID,
		Role:        role,
		Status:      "checked_in",
		CheckedInAt: now,
		CreatedAt:   now,
	}
	if err := s.repo.CreateLecturerAttendance(ctx, la); err != nil {
		return nil, err
	}

	s.publish(ctx, events.LecturerCheckedIn{
		BaseEvent:  events.NewBaseEvent(),
		ScheduleID: schedule.ID,
		SeminarID:  schedule.SeminarID,
		LecturerID: lecturerID,
		Role:       role,
		Status:     la.Status,
	})

	resp := toLecturerResponse(la)
	return &resp, nil
}

// VerifyLecturerCheckIn marks a lecturer check-in as verified. Admin-only;
// verifying twice is rejected.
func (s *Service) VerifyLecturerCheckIn(ctx context.Context, checkInID, adminID uuid.UUID) (*transport.LecturerAttendanceResponse, error) {
	verified, err := s.repo.VerifyLecturerAttendance(ctx, checkInID, adminID)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, apperr.Unprocessable("check-in has already been verified")
	}

	la, err := s.repo.GetLecturerAttendance(ctx, checkInID)
	if err != nil {
		return nil, err
	}

	resp := toLecturerResponse(la)
	return &resp, nil
}

// ListLecturerCheckIns returns the lecturer check-ins for a schedule.
func (s *Service) ListLecturerCheckIns(ctx context.Context, scheduleID uuid.UUID) ([]transport.LecturerAttendanceResponse, error) {
	items, err := s.repo.ListLecturerAttendances(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	resp := make([]transport.LecturerAttendanceResponse, len(items))
	for i := range items {
		resp[i] = toLecturerResponse(&items[i])
	}
	return resp, nil
}

func (s *Service) publish(ctx context.Context, evt events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, evt)
	}
}

func toResponse(a *repository.Attendance) transport.AttendanceResponse {
	return transport.AttendanceResponse{
		ID:         a.ID,
		ScheduleID: a.ScheduleID,
		SeminarID:  a.SeminarID,
		StudentID:  a.StudentID,
		Status:     a.Status,
		Method:     a.Method,
		DistanceM:  a.DistanceM,
		Note:       a.Note,
		RecordedBy: a.RecordedBy,
		ScannedAt:  a.ScannedAt,
		CreatedAt:  a.CreatedAt,
	}
}

func toResponses(items []repository.Attendance) []transport.AttendanceResponse {
	resp := make([]transport.AttendanceResponse, len(items))
	for i := range items {
		resp[i] = toResponse(&items[i])
	}
	return resp
}

func toLecturerResponse(la *repository.LecturerAttendance) transport.LecturerAttendanceResponse {
	return transport.LecturerAttendanceResponse{
		ID:          la.ID,
		ScheduleID:  la.ScheduleID,
		SeminarID:   la.SeminarID,
		LecturerID:  la.LecturerID,
		Role:        la.Role,
		Status:      la.Status,
		CheckedInAt: la.CheckedInAt,
		VerifiedBy:  la.VerifiedBy,
		VerifiedAt:  la.VerifiedAt,
	}
}
