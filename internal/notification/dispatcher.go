package notification

import (
	"fmt"

	"seminar_portal_backend/internal/events"

	"github.com/google/uuid"
)

// Recipients is the resolved audience for one event: the seminar's owner,
// its assigned lecturers, and every administrator.
type Recipients struct {
	StudentID   uuid.UUID
	LecturerIDs []uuid.UUID
	AdminIDs    []uuid.UUID
}

// Delivery is one planned notification for one user. The module persists it
// in-app, pushes it over SSE, and queues an email when Email is set.
type Delivery struct {
	UserID        uuid.UUID
	Title         string
	Content       string
	Category      string
	ResourceID    *uuid.UUID
	ResourceType  string
	Email         bool
	EmailTemplate string
}

const (
	resourceSeminar    = "seminar"
	resourceSchedule   = "schedule"
	resourceAttendance = "attendance"
)

// Dispatch maps a domain event to the deliveries it should produce. Pure:
// no I/O, no clock. The triggering actor never receives their own
// notification; administrators are added for submission, rejection, and
// cancellation events, which require admin action or oversight.
func Dispatch(event events.Event, rcp Recipients) []Delivery {
	switch e := event.(type) {
	case events.SeminarSubmitted:
		return dispatchSubmitted(e, rcp)
	case events.SeminarVerified:
		return dispatchVerified(e, rcp)
	case events.SeminarRejected:
		return dispatchRejected(e, rcp)
	case events.ApprovalDecided:
		return dispatchApprovalDecided(e, rcp)
	case events.ApprovalConsensusReached:
		return dispatchConsensus(e, rcp)
	case events.SeminarCancelled:
		return dispatchCancelled(e, rcp)
	case events.SeminarScheduled:
		return dispatchScheduled(e, rcp)
	case events.SeminarRescheduled:
		return dispatchRescheduled(e, rcp)
	case events.SeminarFinished:
		return dispatchFinished(e, rcp)
	case events.RevisionItemRequested:
		return dispatchRevisionItemRequested(e, rcp)
	case events.RevisionItemResolved:
		return dispatchRevisionItemResolved(e, rcp)
	case events.AttendanceRecorded:
		return dispatchAttendanceRecorded(e, rcp)
	case events.AttendanceRevisionRequested:
		return dispatchAttendanceRevisionRequested(e, rcp)
	case events.AttendanceRevisionResolved:
		return dispatchAttendanceRevisionResolved(e, rcp)
	case events.SeminarReminderDue:
		return dispatchReminder(e, rcp)
	default:
		// ScheduleConflict rides on the SeminarCancelled fan-out, and
		// LecturerCheckedIn is SSE-broadcast only.
		return nil
	}
}

func dispatchSubmitted(e events.SeminarSubmitted, rcp Recipients) []Delivery {
	title := "New seminar submission"
	content := fmt.Sprintf("%s submitted %q for verification.", e.StudentName, e.Title)

	var out []Delivery
	out = appendUsers(out, rcp.LecturerIDs, uuid.Nil, Delivery{
		Title:         title,
		Content:       content,
		Category:      "info",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "seminar_submitted",
	})
	out = appendUsers(out, rcp.AdminIDs, uuid.Nil, Delivery{
		Title:         title,
		Content:       content,
		Category:      "info",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "seminar_submitted",
	})
	return out
}

func dispatchVerified(e events.SeminarVerified, rcp Recipients) []Delivery {
	out := []Delivery{{
		UserID:        rcp.StudentID,
		Title:         "Seminar verified",
		Content:       fmt.Sprintf("Your seminar %q passed administrative verification. Lecturer approvals are now pending.", e.Title),
		Category:      "success",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "seminar_verified_student",
	}}
	return appendUsers(out, rcp.LecturerIDs, uuid.Nil, Delivery{
		Title:         "Approval requested",
		Content:       fmt.Sprintf("Seminar %q is awaiting your approval and available dates.", e.Title),
		Category:      "info",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "approval_requested",
	})
}

func dispatchRejected(e events.SeminarRejected, rcp Recipients) []Delivery {
	content := fmt.Sprintf("Seminar %q was rejected: %s", e.Title, e.Reason)

	out := []Delivery{{
		UserID:        rcp.StudentID,
		Title:         "Seminar rejected",
		Content:       content,
		Category:      "error",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "seminar_rejected",
	}}
	out = appendUsers(out, rcp.LecturerIDs, e.ActorID, Delivery{
		Title:        "Seminar rejected",
		Content:      content,
		Category:     "warning",
		ResourceID:   ptr(e.SeminarID),
		ResourceType: resourceSeminar,
	})
	return appendUsers(out, rcp.AdminIDs, e.ActorID, Delivery{
		Title:        "Seminar rejected",
		Content:      content,
		Category:     "warning",
		ResourceID:   ptr(e.SeminarID),
		ResourceType: resourceSeminar,
	})
}

func dispatchApprovalDecided(e events.ApprovalDecided, rcp Recipients) []Delivery {
	content := fmt.Sprintf("The %s %s seminar %q.", e.Role, pastTense(e.Decision), e.Title)

	out := []Delivery{{
		UserID:       rcp.StudentID,
		Title:        "Approval update",
		Content:      content,
		Category:     "info",
		ResourceID:   ptr(e.SeminarID),
		ResourceType: resourceSeminar,
	}}
	return appendUsers(out, rcp.LecturerIDs, e.LecturerID, Delivery{
		Title:        "Approval update",
		Content:      content,
		Category:     "info",
		ResourceID:   ptr(e.SeminarID),
		ResourceType: resourceSeminar,
	})
}

func dispatchConsensus(e events.ApprovalConsensusReached, rcp Recipients) []Delivery {
	out := []Delivery{{
		UserID:        rcp.StudentID,
		Title:         "All lecturers approved",
		Content:       fmt.Sprintf("Seminar %q has full lecturer approval. Scheduling is in progress.", e.Title),
		Category:      "success",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "approval_consensus",
	}}
	// Admins pick the slot from the common dates.
	return appendUsers(out, rcp.AdminIDs, uuid.Nil, Delivery{
		Title:         "Seminar ready to schedule",
		Content:       fmt.Sprintf("Seminar %q has %d common available date(s).", e.Title, len(e.CommonDates)),
		Category:      "info",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "schedule_requested",
	})
}

func dispatchCancelled(e events.SeminarCancelled, rcp Recipients) []Delivery {
	content := fmt.Sprintf("Seminar %q was cancelled: %s", e.Title, e.Reason)

	var out []Delivery
	if e.ActorRole != "student" {
		out = append(out, Delivery{
			UserID:        rcp.StudentID,
			Title:         "Seminar cancelled",
			Content:       content,
			Category:      "error",
			ResourceID:    ptr(e.SeminarID),
			ResourceType:  resourceSeminar,
			Email:         true,
			EmailTemplate: "seminar_cancelled",
		})
	}
	out = appendUsers(out, rcp.LecturerIDs, e.ActorID, Delivery{
		Title:         "Seminar cancelled",
		Content:       content,
		Category:      "warning",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "seminar_cancelled",
	})
	return appendUsers(out, rcp.AdminIDs, e.ActorID, Delivery{
		Title:        "Seminar cancelled",
		Content:      content,
		Category:     "warning",
		ResourceID:   ptr(e.SeminarID),
		ResourceType: resourceSeminar,
	})
}

func dispatchScheduled(e events.SeminarScheduled, rcp Recipients) []Delivery {
	content := fmt.Sprintf("Seminar %q is scheduled in %s on %s.",
		e.Title, e.Room, e.StartTime.Format("Mon, 02 Jan 2006 15:04"))

	out := []Delivery{{
		UserID:        rcp.StudentID,
		Title:         "Seminar scheduled",
		Content:       content,
		Category:      "success",
		ResourceID:    ptr(e.ScheduleID),
		ResourceType:  resourceSchedule,
		Email:         true,
		EmailTemplate: "seminar_scheduled",
	}}
	return appendUsers(out, rcp.LecturerIDs, uuid.Nil, Delivery{
		Title:         "Seminar scheduled",
		Content:       content,
		Category:      "info",
		ResourceID:    ptr(e.ScheduleID),
		ResourceType:  resourceSchedule,
		Email:         true,
		EmailTemplate: "seminar_scheduled",
	})
}

func dispatchRescheduled(e events.SeminarRescheduled, rcp Recipients) []Delivery {
	content := fmt.Sprintf("Seminar %q moved from %s (%s) to %s (%s).",
		e.Title,
		e.OldRoom, e.OldStart.Format("Mon, 02 Jan 2006 15:04"),
		e.NewRoom, e.NewStart.Format("Mon, 02 Jan 2006 15:04"))

	out := []Delivery{{
		UserID:        rcp.StudentID,
		Title:         "Seminar rescheduled",
		Content:       content,
		Category:      "warning",
		ResourceID:    ptr(e.ScheduleID),
		ResourceType:  resourceSchedule,
		Email:         true,
		EmailTemplate: "seminar_rescheduled",
	}}
	return appendUsers(out, rcp.LecturerIDs, uuid.Nil, Delivery{
		Title:         "Seminar rescheduled",
		Content:       content,
		Category:      "warning",
		ResourceID:    ptr(e.ScheduleID),
		ResourceType:  resourceSchedule,
		Email:         true,
		EmailTemplate: "seminar_rescheduled",
	})
}

func dispatchFinished(e events.SeminarFinished, rcp Recipients) []Delivery {
	content := fmt.Sprintf("Seminar %q is finished.", e.Title)
	if e.Score != nil {
		content = fmt.Sprintf("Seminar %q is finished with a score of %.1f.", e.Title, *e.Score)
	}

	out := []Delivery{{
		UserID:        rcp.StudentID,
		Title:         "Seminar finished",
		Content:       content,
		Category:      "success",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "seminar_finished",
	}}
	return appendUsers(out, rcp.LecturerIDs, e.FinishedBy, Delivery{
		Title:        "Seminar finished",
		Content:      content,
		Category:     "info",
		ResourceID:   ptr(e.SeminarID),
		ResourceType: resourceSeminar,
	})
}

func dispatchRevisionItemRequested(e events.RevisionItemRequested, rcp Recipients) []Delivery {
	return []Delivery{{
		UserID:        rcp.StudentID,
		Title:         "Revision requested",
		Content:       fmt.Sprintf("A revision item was opened on your seminar: %s", e.Title),
		Category:      "warning",
		ResourceID:    ptr(e.SeminarID),
		ResourceType:  resourceSeminar,
		Email:         true,
		EmailTemplate: "revision_item_requested",
	}}
}

func dispatchRevisionItemResolved(e events.RevisionItemResolved, rcp Recipients) []Delivery {
	category := "success"
	if e.Decision != "accepted" {
		category = "warning"
	}
	return []Delivery{{
		UserID:       rcp.StudentID,
		Title:        "Revision item " + e.Decision,
		Content:      fmt.Sprintf("Your revision submission was %s.", e.Decision),
		Category:     category,
		ResourceID:   ptr(e.SeminarID),
		ResourceType: resourceSeminar,
	}}
}

func dispatchAttendanceRecorded(e events.AttendanceRecorded, rcp Recipients) []Delivery {
	category := "success"
	if e.Status == "invalid" {
		category = "warning"
	}
	return []Delivery{{
		UserID:       rcp.StudentID,
		Title:        "Attendance recorded",
		Content:      fmt.Sprintf("Your attendance was recorded as %s.", e.Status),
		Category:     category,
		ResourceID:   ptr(e.AttendanceID),
		ResourceType: resourceAttendance,
	}}
}

func dispatchAttendanceRevisionRequested(e events.AttendanceRevisionRequested, rcp Recipients) []Delivery {
	return appendUsers(nil, rcp.AdminIDs, uuid.Nil, Delivery{
		Title:        "Attendance revision requested",
		Content:      fmt.Sprintf("A student contests an attendance status (%s → %s): %s", e.OldStatus, e.NewStatus, e.Reason),
		Category:     "info",
		ResourceID:   ptr(e.AttendanceID),
		ResourceType: resourceAttendance,
	})
}

func dispatchAttendanceRevisionResolved(e events.AttendanceRevisionResolved, rcp Recipients) []Delivery {
	category := "success"
	content := fmt.Sprintf("Your attendance revision was approved; status is now %s.", e.NewStatus)
	if e.Decision != "approved" {
		category = "warning"
		content = "Your attendance revision was rejected."
	}
	return []Delivery{{
		UserID:       rcp.StudentID,
		Title:        "Attendance revision " + e.Decision,
		Content:      content,
		Category:     category,
		ResourceID:   ptr(e.AttendanceID),
		ResourceType: resourceAttendance,
	}}
}

func dispatchReminder(e events.SeminarReminderDue, rcp Recipients) []Delivery {
	content := fmt.Sprintf("Reminder: seminar %q starts %s in %s.",
		e.Title, e.StartTime.Format("Mon, 02 Jan 2006 15:04"), e.Room)

	out := []Delivery{{
		UserID:        rcp.StudentID,
		Title:         "Upcoming seminar",
		Content:       content,
		Category:      "info",
		ResourceID:    ptr(e.ScheduleID),
		ResourceType:  resourceSchedule,
		Email:         true,
		EmailTemplate: "seminar_reminder",
	}}
	return appendUsers(out, rcp.LecturerIDs, uuid.Nil, Delivery{
		Title:         "Upcoming seminar",
		Content:       content,
		Category:      "info",
		ResourceID:    ptr(e.ScheduleID),
		ResourceType:  resourceSchedule,
		Email:         true,
		EmailTemplate: "seminar_reminder",
	})
}

// appendUsers fans template out to each user, skipping exclude and
// duplicates already present in out.
func appendUsers(out []Delivery, userIDs []uuid.UUID, exclude uuid.UUID, template Delivery) []Delivery {
	for _, id := range userIDs {
		if id == uuid.Nil || id == exclude || containsUser(out, id) {
			continue
		}
		d := template
		d.UserID = id
		out = append(out, d)
	}
	return out
}

func containsUser(deliveries []Delivery, userID uuid.UUID) bool {
	for _, d := range deliveries {
		if d.UserID == userID {
			return true
		}
	}
	return false
}

func pastTense(decision string) string {
	if decision == "rejected" {
		return "rejected"
	}
	return "approved"
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }
