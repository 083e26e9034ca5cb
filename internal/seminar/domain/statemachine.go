package domain

import "fmt"

// TransitionEvent names a command that moves a seminar between statuses.
type TransitionEvent string

const (
	EventSubmit           TransitionEvent = "submit"
	EventVerify           TransitionEvent = "verify"
	EventSendBack         TransitionEvent = "send_back"
	EventLecturerReject   TransitionEvent = "lecturer_reject"
	EventSchedule         TransitionEvent = "schedule"
	EventScheduleConflict TransitionEvent = "schedule_conflict"
	EventFinish           TransitionEvent = "finish"
	EventCancel           TransitionEvent = "cancel"
	EventResubmit         TransitionEvent = "resubmit"
)

// InvalidTransitionError reports an event that is not legal from the
// seminar's current status. The message carries both so callers can surface
// a meaningful rejection.
type InvalidTransitionError struct {
	From  SeminarStatus
	Event TransitionEvent
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a seminar in status %q", e.Event, e.From)
}

// transitions is the full legal transition table. Statuses absent from the
// table (finished, cancelled) are terminal.
var transitions = map[SeminarStatus]map[TransitionEvent]SeminarStatus{
	StatusDraft: {
		EventSubmit: StatusPendingVerification,
	},
	// The approval ledger opens at submission, so the final decision, and
	// an empty date intersection with it, can land before the admin
	// verifies. schedule_conflict must therefore be legal here too.
	StatusPendingVerification: {
		EventVerify:           StatusApproved,
		EventSendBack:         StatusRevising,
		EventLecturerReject:   StatusCancelled,
		EventScheduleConflict: StatusCancelled,
		EventCancel:           StatusCancelled,
	},
	StatusApproved: {
		EventSchedule:         StatusScheduled,
		EventScheduleConflict: StatusCancelled,
		EventLecturerReject:   StatusCancelled,
		EventCancel:           StatusCancelled,
	},
	StatusScheduled: {
		EventFinish: StatusFinished,
		EventCancel: StatusCancelled,
	},
	StatusRevising: {
		EventResubmit: StatusPendingVerification,
	},
}

// Next returns the status reached by applying event to current. It fails
// with *InvalidTransitionError when the event is not legal from current.
func Next(current SeminarStatus, event TransitionEvent) (SeminarStatus, error) {
	if targets, ok := transitions[current]; ok {
		if next, ok := targets[event]; ok {
			return next, nil
		}
	}
	return "", &InvalidTransitionError{From: current, Event: event}
}

// CanTransition reports whether event is legal from current.
func CanTransition(current SeminarStatus, event TransitionEvent) bool {
	_, err := Next(current, event)
	return err == nil
}

// IsTerminal reports whether no event can move the seminar out of status.
func IsTerminal(status SeminarStatus) bool {
	targets, ok := transitions[status]
	return !ok || len(targets) == 0
}
