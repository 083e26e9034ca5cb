package notification

import (
	"testing"
	"time"

	"seminar_portal_backend/internal/events"

	"github.com/google/uuid"
)

func deliveryFor(t *testing.T, deliveries []Delivery, userID uuid.UUID) Delivery {
	t.Helper()
	for _, d := range deliveries {
		if d.UserID == userID {
			return d
		}
	}
	t.Fatalf("no delivery for user %s", userID)
	return Delivery{}
}

func hasDeliveryFor(deliveries []Delivery, userID uuid.UUID) bool {
	for _, d := range deliveries {
		if d.UserID == userID {
			return true
		}
	}
	return false
}

func TestDispatchLecturerRejectionSkipsActor(t *testing.T) {
	student := uuid.New()
	lecturerA := uuid.New()
	lecturerB := uuid.New()
	lecturerC := uuid.New()
	admin := uuid.New()

	rcp := Recipients{
		StudentID:   student,
		LecturerIDs: []uuid.UUID{lecturerA, lecturerB, lecturerC},
		AdminIDs:    []uuid.UUID{admin},
	}

	deliveries := Dispatch(events.SeminarRejected{
		SeminarID: uuid.New(),
		StudentID: student,
		ActorID:   lecturerC,
		ActorRole: "examiner",
		Reason:    "topic overlaps with an existing thesis",
		Title:     "Distributed Consensus in Practice",
	}, rcp)

	if len(deliveries) != 4 {
		t.Fatalf("expected 4 deliveries, got %d", len(deliveries))
	}
	for _, want := range []uuid.UUID{student, lecturerA, lecturerB, admin} {
		if !hasDeliveryFor(deliveries, want) {
			t.Errorf("expected delivery for %s", want)
		}
	}
	if hasDeliveryFor(deliveries, lecturerC) {
		t.Error("rejecting lecturer should not be notified of their own rejection")
	}

	d := deliveryFor(t, deliveries, student)
	if !d.Email {
		t.Error("student rejection notice should include an email")
	}
	if d.Category != "error" {
		t.Errorf("student rejection category = %q, want error", d.Category)
	}
}

func TestDispatchSubmittedSkipsStudent(t *testing.T) {
	student := uuid.New()
	lecturer := uuid.New()
	admin := uuid.New()

	deliveries := Dispatch(events.SeminarSubmitted{
		SeminarID:   uuid.New(),
		StudentID:   student,
		StudentName: "Rina",
		Title:       "Stream Processing at Scale",
		LecturerIDs: []uuid.UUID{lecturer},
	}, Recipients{
		StudentID:   student,
		LecturerIDs: []uuid.UUID{lecturer},
		AdminIDs:    []uuid.UUID{admin},
	})

	if hasDeliveryFor(deliveries, student) {
		t.Error("submitting student should not be notified of their own submission")
	}
	if !hasDeliveryFor(deliveries, lecturer) || !hasDeliveryFor(deliveries, admin) {
		t.Error("expected deliveries for lecturer and admin")
	}
}

func TestDispatchCancelledByStudentSkipsStudent(t *testing.T) {
	student := uuid.New()
	lecturer := uuid.New()
	admin := uuid.New()

	deliveries := Dispatch(events.SeminarCancelled{
		SeminarID:   uuid.New(),
		StudentID:   student,
		ActorID:     student,
		ActorRole:   "student",
		Reason:      "withdrawing this semester",
		Title:       "Edge Caching Strategies",
		LecturerIDs: []uuid.UUID{lecturer},
	}, Recipients{
		StudentID:   student,
		LecturerIDs: []uuid.UUID{lecturer},
		AdminIDs:    []uuid.UUID{admin},
	})

	if hasDeliveryFor(deliveries, student) {
		t.Error("withdrawing student should not be notified of their own cancellation")
	}
	if !hasDeliveryFor(deliveries, lecturer) || !hasDeliveryFor(deliveries, admin) {
		t.Error("expected deliveries for lecturer and admin")
	}
}

func TestDispatchCancelledBySystemNotifiesEveryone(t *testing.T) {
	student := uuid.New()
	lecturers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	admin := uuid.New()

	deliveries := Dispatch(events.SeminarCancelled{
		SeminarID:   uuid.New(),
		StudentID:   student,
		ActorRole:   "system",
		Reason:      "no matching dates",
		Title:       "Quantum Error Correction",
		LecturerIDs: lecturers,
	}, Recipients{
		StudentID:   student,
		LecturerIDs: lecturers,
		AdminIDs:    []uuid.UUID{admin},
	})

	if len(deliveries) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(deliveries))
	}
	if !hasDeliveryFor(deliveries, student) {
		t.Error("expected student delivery for system cancellation")
	}
}

func TestDispatchApprovalDecidedSkipsDecidingLecturer(t *testing.T) {
	student := uuid.New()
	advisor1 := uuid.New()
	advisor2 := uuid.New()

	deliveries := Dispatch(events.ApprovalDecided{
		ApprovalID: uuid.New(),
		SeminarID:  uuid.New(),
		StudentID:  student,
		LecturerID: advisor1,
		Role:       "advisor1",
		Decision:   "approved",
		Title:      "Database Sharding",
	}, Recipients{
		StudentID:   student,
		LecturerIDs: []uuid.UUID{advisor1, advisor2},
	})

	if hasDeliveryFor(deliveries, advisor1) {
		t.Error("deciding lecturer should not be notified of their own decision")
	}
	if !hasDeliveryFor(deliveries, student) || !hasDeliveryFor(deliveries, advisor2) {
		t.Error("expected deliveries for student and the other lecturer")
	}
}

func TestDispatchScheduledEmailsStudentAndLecturers(t *testing.T) {
	student := uuid.New()
	lecturer := uuid.New()

	deliveries := Dispatch(events.SeminarScheduled{
		SeminarID:  uuid.New(),
		ScheduleID: uuid.New(),
		StudentID:  student,
		Title:      "Zero-Downtime Migrations",
		Room:       "A-201",
		StartTime:  time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
	}, Recipients{
		StudentID:   student,
		LecturerIDs: []uuid.UUID{lecturer},
	})

	for _, d := range deliveries {
		if !d.Email {
			t.Errorf("scheduled delivery for %s should include an email", d.UserID)
		}
		if d.ResourceType != resourceSchedule {
			t.Errorf("resource type = %q, want %q", d.ResourceType, resourceSchedule)
		}
	}
}

func TestDispatchDeduplicatesOverlappingAudiences(t *testing.T) {
	student := uuid.New()
	shared := uuid.New() // lecturer who is also listed as an admin

	deliveries := Dispatch(events.SeminarSubmitted{
		SeminarID:   uuid.New(),
		StudentID:   student,
		StudentName: "Budi",
		Title:       "Geofence Accuracy",
		LecturerIDs: []uuid.UUID{shared},
	}, Recipients{
		StudentID:   student,
		LecturerIDs: []uuid.UUID{shared},
		AdminIDs:    []uuid.UUID{shared},
	})

	if len(deliveries) != 1 {
		t.Fatalf("expected 1 deduplicated delivery, got %d", len(deliveries))
	}
}

func TestDispatchIgnoresBroadcastOnlyEvents(t *testing.T) {
	rcp := Recipients{StudentID: uuid.New(), AdminIDs: []uuid.UUID{uuid.New()}}

	if got := Dispatch(events.LecturerCheckedIn{}, rcp); got != nil {
		t.Errorf("lecturer check-in should have no in-app deliveries, got %d", len(got))
	}
	if got := Dispatch(events.ScheduleConflict{}, rcp); got != nil {
		t.Errorf("schedule conflict rides on the cancellation fan-out, got %d deliveries", len(got))
	}
}
