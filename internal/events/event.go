// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"seminar_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Seminar Domain Events
// =============================================================================

// SeminarSubmitted is published when a student submits a seminar for
// verification. Approvals for the three lecturer roles exist at this point.
type SeminarSubmitted struct {
	BaseEvent
	SeminarID   uuid.UUID   `json:"seminarId"`
	StudentID   uuid.UUID   `json:"studentId"`
	StudentName string      `json:"studentName"`
	Title       string      `json:"title"`
	SeminarType string      `json:"seminarType"`
	LecturerIDs []uuid.UUID `json:"lecturerIds"`
}

func (e SeminarSubmitted) EventName() string { return "seminar.submitted" }

// SeminarVerified is published when an administrator verifies a submission.
// The assigned lecturers are notified that their approval is now requested.
type SeminarVerified struct {
	BaseEvent
	SeminarID   uuid.UUID   `json:"seminarId"`
	StudentID   uuid.UUID   `json:"studentId"`
	VerifiedBy  uuid.UUID   `json:"verifiedBy"`
	Title       string      `json:"title"`
	LecturerIDs []uuid.UUID `json:"lecturerIds"`
}

func (e SeminarVerified) EventName() string { return "seminar.verified" }

// SeminarRejected is published when a submission is sent back for revision
// by an administrator, or rejected outright by one of the lecturers.
type SeminarRejected struct {
	BaseEvent
	SeminarID uuid.UUID `json:"seminarId"`
	StudentID uuid.UUID `json:"studentId"`
	ActorID   uuid.UUID `json:"actorId"`
	ActorRole string    `json:"actorRole"` // "admin" or the lecturer role
	Reason    string    `json:"reason"`
	Title     string    `json:"title"`
}

func (e SeminarRejected) EventName() string { return "seminar.rejected" }

// ScheduleConflict is published when all three approvals are in but the
// lecturers share no common available date. The seminar has already been
// cancelled when this event fires.
type ScheduleConflict struct {
	BaseEvent
	SeminarID uuid.UUID `json:"seminarId"`
	StudentID uuid.UUID `json:"studentId"`
	Title     string    `json:"title"`
}

func (e ScheduleConflict) EventName() string { return "seminar.schedule_conflict" }

// SeminarScheduled is published when a schedule is created for a seminar.
type SeminarScheduled struct {
	BaseEvent
	SeminarID       uuid.UUID `json:"seminarId"`
	ScheduleID      uuid.UUID `json:"scheduleId"`
	StudentID       uuid.UUID `json:"studentId"`
	ActorID         uuid.UUID `json:"actorId"`
	Title           string    `json:"title"`
	Room            string    `json:"room"`
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

func (e SeminarScheduled) EventName() string { return "seminar.scheduled" }

// SeminarRescheduled is published when an administrator moves an existing
// schedule to a new time or room.
type SeminarRescheduled struct {
	BaseEvent
	SeminarID  uuid.UUID `json:"seminarId"`
	ScheduleID uuid.UUID `json:"scheduleId"`
	StudentID  uuid.UUID `json:"studentId"`
	ActorID    uuid.UUID `json:"actorId"`
	Title      string    `json:"title"`
	OldRoom    string    `json:"oldRoom"`
	NewRoom    string    `json:"newRoom"`
	OldStart   time.Time `json:"oldStart"`
	NewStart   time.Time `json:"newStart"`
}

func (e SeminarRescheduled) EventName() string { return "seminar.rescheduled" }

// SeminarCancelled is published for every cancellation path: student
// withdrawal, admin cancellation, lecturer rejection, or an empty date
// intersection. ActorRole distinguishes the fan-out rules.
type SeminarCancelled struct {
	BaseEvent
	SeminarID   uuid.UUID   `json:"seminarId"`
	StudentID   uuid.UUID   `json:"studentId"`
	ActorID     uuid.UUID   `json:"actorId"`
	ActorRole   string      `json:"actorRole"` // "student", "admin", or "system"
	Reason      string      `json:"reason"`
	Title       string      `json:"title"`
	LecturerIDs []uuid.UUID `json:"lecturerIds"`
}

func (e SeminarCancelled) EventName() string { return "seminar.cancelled" }

// SeminarFinished is published when a seminar is closed out after its
// revision items are approved.
type SeminarFinished struct {
	BaseEvent
	SeminarID  uuid.UUID `json:"seminarId"`
	StudentID  uuid.UUID `json:"studentId"`
	FinishedBy uuid.UUID `json:"finishedBy"`
	Title      string    `json:"title"`
	Score      *float64  `json:"score,omitempty"`
}

func (e SeminarFinished) EventName() string { return "seminar.finished" }

// RevisionItemRequested is published when a lecturer opens a post-seminar
// correction request against a student's work.
type RevisionItemRequested struct {
	BaseEvent
	ItemID      uuid.UUID `json:"itemId"`
	SeminarID   uuid.UUID `json:"seminarId"`
	StudentID   uuid.UUID `json:"studentId"`
	RequestedBy uuid.UUID `json:"requestedBy"`
	Title       string    `json:"title"`
}

func (e RevisionItemRequested) EventName() string { return "seminar.revision_item.requested" }

// RevisionItemResolved is published when a lecturer accepts or rejects a
// submitted revision item.
type RevisionItemResolved struct {
	BaseEvent
	ItemID    uuid.UUID `json:"itemId"`
	SeminarID uuid.UUID `json:"seminarId"`
	StudentID uuid.UUID `json:"studentId"`
	DecidedBy uuid.UUID `json:"decidedBy"`
	Decision  string    `json:"decision"`
}

func (e RevisionItemResolved) EventName() string { return "seminar.revision_item.resolved" }

// =============================================================================
// Approval Domain Events
// =============================================================================

// ApprovalDecided is published for every lecturer decision on an approval
// slot, approve or reject.
type ApprovalDecided struct {
	BaseEvent
	ApprovalID uuid.UUID `json:"approvalId"`
	SeminarID  uuid.UUID `json:"seminarId"`
	StudentID  uuid.UUID `json:"studentId"`
	LecturerID uuid.UUID `json:"lecturerId"`
	Role       string    `json:"role"`
	Decision   string    `json:"decision"`
	Title      string    `json:"title"`
}

func (e ApprovalDecided) EventName() string { return "approval.decided" }

// ApprovalConsensusReached is published when the last assigned role approves
// and the lecturers' available dates still intersect. Administrators pick a
// schedule from CommonDates.
type ApprovalConsensusReached struct {
	BaseEvent
	SeminarID   uuid.UUID   `json:"seminarId"`
	StudentID   uuid.UUID   `json:"studentId"`
	Title       string      `json:"title"`
	CommonDates []time.Time `json:"commonDates"`
}

func (e ApprovalConsensusReached) EventName() string { return "approval.consensus_reached" }

// =============================================================================
// Attendance Domain Events
// =============================================================================

// AttendanceRecorded is published when a student scan or manual entry is
// persisted. Broadcast on the admin student-attendance channel.
type AttendanceRecorded struct {
	BaseEvent
	AttendanceID uuid.UUID `json:"attendanceId"`
	ScheduleID   uuid.UUID `json:"scheduleId"`
	SeminarID    uuid.UUID `json:"seminarId"`
	StudentID    uuid.UUID `json:"studentId"`
	Status       string    `json:"status"`
	Method       string    `json:"method"`
	DistanceM    float64   `json:"distanceM"`
}

func (e AttendanceRecorded) EventName() string { return "attendance.recorded" }

// LecturerCheckedIn is published when a lecturer presence record is created.
// Broadcast on the admin lecturer-checkin channel.
type LecturerCheckedIn struct {
	BaseEvent
	ScheduleID uuid.UUID `json:"scheduleId"`
	SeminarID  uuid.UUID `json:"seminarId"`
	LecturerID uuid.UUID `json:"lecturerId"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
}

func (e LecturerCheckedIn) EventName() string { return "attendance.lecturer_checked_in" }

// AttendanceRevisionRequested is published when a student contests a
// recorded attendance status.
type AttendanceRevisionRequested struct {
	BaseEvent
	RevisionID   uuid.UUID `json:"revisionId"`
	AttendanceID uuid.UUID `json:"attendanceId"`
	ScheduleID   uuid.UUID `json:"scheduleId"`
	StudentID    uuid.UUID `json:"studentId"`
	OldStatus    string    `json:"oldStatus"`
	NewStatus    string    `json:"newStatus"`
	Reason       string    `json:"reason"`
}

func (e AttendanceRevisionRequested) EventName() string { return "attendance.revision_requested" }

// AttendanceRevisionResolved is published when a revision request is
// approved or rejected.
type AttendanceRevisionResolved struct {
	BaseEvent
	RevisionID   uuid.UUID `json:"revisionId"`
	AttendanceID uuid.UUID `json:"attendanceId"`
	StudentID    uuid.UUID `json:"studentId"`
	ApproverID   uuid.UUID `json:"approverId"`
	Decision     string    `json:"decision"`
	NewStatus    string    `json:"newStatus"`
}

func (e AttendanceRevisionResolved) EventName() string { return "attendance.revision_resolved" }

// =============================================================================
// Scheduler Events
// =============================================================================

// SeminarReminderDue is published by the scheduler worker when a reminder
// for an upcoming scheduled seminar should go out.
type SeminarReminderDue struct {
	BaseEvent
	SeminarID  uuid.UUID `json:"seminarId"`
	ScheduleID uuid.UUID `json:"scheduleId"`
	StudentID  uuid.UUID `json:"studentId"`
	Title      string    `json:"title"`
	Room       string    `json:"room"`
	StartTime  time.Time `json:"startTime"`
}

func (e SeminarReminderDue) EventName() string { return "seminar.reminder.due" }

// NotificationOutboxDue is published by the scheduler when a notification
// outbox record should be processed.
type NotificationOutboxDue struct {
	BaseEvent
	OutboxID uuid.UUID `json:"outboxId"`
}

func (e NotificationOutboxDue) EventName() string { return "notification.outbox.due" }
