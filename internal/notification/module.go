// Package notification turns domain events into in-app notifications, SSE
// pushes, and queued emails. Domain modules publish events and stay unaware
// of delivery channels.
package notification

import (
	"context"

	directoryrepo "seminar_portal_backend/internal/directory/repository"
	"seminar_portal_backend/internal/events"
	apphttp "seminar_portal_backend/internal/http"
	notifhandler "seminar_portal_backend/internal/notification/handler"
	"seminar_portal_backend/internal/notification/inapp"
	"seminar_portal_backend/internal/notification/outbox"
	"seminar_portal_backend/internal/notification/sse"
	"seminar_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Directory resolves recipients and their contact details.
type Directory interface {
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)
	GetUsersBatch(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]directoryrepo.User, error)
}

// SeminarReader resolves the lecturers assigned to a seminar.
type SeminarReader interface {
	AssignedLecturers(ctx context.Context, seminarID uuid.UUID) ([]uuid.UUID, error)
}

// Module wires the notification pipeline: event subscription, fan-out,
// in-app store, SSE, and the email outbox.
type Module struct {
	inappSvc  *inapp.Service
	sseSvc    *sse.Service
	outbox    *outbox.Repository
	directory Directory
	seminars  SeminarReader
	handler   *notifhandler.Handler
	log       *logger.Logger
}

// NewModule creates the notification module and subscribes it to every
// domain event it fans out.
func NewModule(pool *pgxpool.Pool, directory Directory, seminars SeminarReader, eventBus events.Bus, log *logger.Logger) *Module {
	inappRepo := inapp.NewRepository(pool)
	inappSvc := inapp.NewService(inappRepo, log)
	sseSvc := sse.New()
	inappSvc.SetSSE(sseSvc)

	m := &Module{
		inappSvc:  inappSvc,
		sseSvc:    sseSvc,
		outbox:    outbox.New(pool),
		directory: directory,
		seminars:  seminars,
		handler:   notifhandler.New(inappSvc, sseSvc),
		log:       log,
	}

	if eventBus != nil {
		m.subscribe(eventBus)
	}

	return m
}

func (m *Module) subscribe(bus events.Bus) {
	subscribed := []string{
		events.SeminarSubmitted{}.EventName(),
		events.SeminarVerified{}.EventName(),
		events.SeminarRejected{}.EventName(),
		events.SeminarCancelled{}.EventName(),
		events.SeminarScheduled{}.EventName(),
		events.SeminarRescheduled{}.EventName(),
		events.SeminarFinished{}.EventName(),
		events.RevisionItemRequested{}.EventName(),
		events.RevisionItemResolved{}.EventName(),
		events.ApprovalDecided{}.EventName(),
		events.ApprovalConsensusReached{}.EventName(),
		events.AttendanceRecorded{}.EventName(),
		events.LecturerCheckedIn{}.EventName(),
		events.AttendanceRevisionRequested{}.EventName(),
		events.AttendanceRevisionResolved{}.EventName(),
		events.SeminarReminderDue{}.EventName(),
	}
	for _, name := range subscribed {
		bus.Subscribe(name, events.HandlerFunc(m.handleEvent))
	}
}

func (m *Module) handleEvent(ctx context.Context, event events.Event) error {
	m.broadcastAdminChannels(event)

	rcp, err := m.resolveRecipients(ctx, event)
	if err != nil {
		m.log.Error("failed to resolve notification recipients", "event", event.EventName(), "error", err)
		return err
	}

	deliveries := Dispatch(event, rcp)
	if len(deliveries) == 0 {
		return nil
	}

	users := m.lookupUsers(ctx, deliveries)

	for _, d := range deliveries {
		if err := m.inappSvc.Send(ctx, inapp.SendParams{
			UserID:       d.UserID,
			Title:        d.Title,
			Content:      d.Content,
			ResourceID:   d.ResourceID,
			ResourceType: d.ResourceType,
			Category:     d.Category,
		}); err != nil {
			m.log.Error("in-app delivery failed", "event", event.EventName(), "userId", d.UserID, "error", err)
		}

		if d.Email {
			m.queueEmail(ctx, d, users)
		}
	}

	return nil
}

// broadcastAdminChannels pushes attendance activity onto the admin
// dashboard channels regardless of per-user deliveries.
func (m *Module) broadcastAdminChannels(event events.Event) {
	switch e := event.(type) {
	case events.AttendanceRecorded:
		m.sseSvc.Broadcast(sse.ChannelStudentAttendance, sse.Event{
			Type:      sse.EventStudentAttendance,
			SeminarID: e.SeminarID,
			Data:      e,
		})
	case events.LecturerCheckedIn:
		m.sseSvc.Broadcast(sse.ChannelLecturerCheckIn, sse.Event{
			Type:      sse.EventLecturerCheckIn,
			SeminarID: e.SeminarID,
			Data:      e,
		})
	}
}

func (m *Module) resolveRecipients(ctx context.Context, event events.Event) (Recipients, error) {
	studentID, seminarID, carried := eventAudience(event)

	rcp := Recipients{StudentID: studentID, LecturerIDs: carried}

	if len(rcp.LecturerIDs) == 0 && seminarID != uuid.Nil && m.seminars != nil {
		lecturers, err := m.seminars.AssignedLecturers(ctx, seminarID)
		if err != nil {
			m.log.Error("failed to resolve assigned lecturers", "seminarId", seminarID, "error", err)
		} else {
			rcp.LecturerIDs = lecturers
		}
	}

	if m.directory != nil {
		admins, err := m.directory.ListAdminIDs(ctx)
		if err != nil {
			return Recipients{}, err
		}
		rcp.AdminIDs = admins
	}

	return rcp, nil
}

// eventAudience extracts the student, seminar, and any event-carried
// lecturer list from an event.
func eventAudience(event events.Event) (studentID, seminarID uuid.UUID, lecturerIDs []uuid.UUID) {
	switch e := event.(type) {
	case events.SeminarSubmitted:
		return e.StudentID, e.SeminarID, e.LecturerIDs
	case events.SeminarVerified:
		return e.StudentID, e.SeminarID, e.LecturerIDs
	case events.SeminarRejected:
		return e.StudentID, e.SeminarID, nil
	case events.SeminarCancelled:
		return e.StudentID, e.SeminarID, e.LecturerIDs
	case events.SeminarScheduled:
		return e.StudentID, e.SeminarID, nil
	case events.SeminarRescheduled:
		return e.StudentID, e.SeminarID, nil
	case events.SeminarFinished:
		return e.StudentID, e.SeminarID, nil
	case events.RevisionItemRequested:
		return e.StudentID, e.SeminarID, nil
	case events.RevisionItemResolved:
		return e.StudentID, e.SeminarID, nil
	case events.ApprovalDecided:
		return e.StudentID, e.SeminarID, nil
	case events.ApprovalConsensusReached:
		return e.StudentID, e.SeminarID, nil
	case events.AttendanceRecorded:
		return e.StudentID, e.SeminarID, nil
	case events.AttendanceRevisionRequested:
		return e.StudentID, uuid.Nil, nil
	case events.AttendanceRevisionResolved:
		return e.StudentID, uuid.Nil, nil
	case events.SeminarReminderDue:
		return e.StudentID, e.SeminarID, nil
	}
	return uuid.Nil, uuid.Nil, nil
}

func (m *Module) lookupUsers(ctx context.Context, deliveries []Delivery) map[uuid.UUID]directoryrepo.User {
	if m.directory == nil {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(deliveries))
	for _, d := range deliveries {
		if d.Email {
			ids = append(ids, d.UserID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	users, err := m.directory.GetUsersBatch(ctx, ids)
	if err != nil {
		m.log.Error("failed to look up notification recipients", "error", err)
		return nil
	}
	return users
}

func (m *Module) queueEmail(ctx context.Context, d Delivery, users map[uuid.UUID]directoryrepo.User) {
	user, ok := users[d.UserID]
	if !ok || user.Email == "" {
		return
	}

	_, err := m.outbox.Insert(ctx, outbox.InsertParams{
		UserID:   d.UserID,
		Kind:     outbox.KindEmail,
		Template: d.EmailTemplate,
		Payload: outbox.EmailPayload{
			ToEmail:  user.Email,
			ToName:   user.FullName,
			Template: d.EmailTemplate,
			Heading:  d.Title,
			Body:     d.Content,
		},
	})
	if err != nil {
		m.log.Error("failed to queue notification email", "userId", d.UserID, "template", d.EmailTemplate, "error", err)
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "notification"
}

// RegisterRoutes registers the notification routes under /api/v1
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Close shuts down open SSE connections.
func (m *Module) Close() {
	m.sseSvc.Close()
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
