package domain

import (
	"errors"
	"testing"
)

func TestNextLegalTransitions(t *testing.T) {
	cases := []struct {
		from  SeminarStatus
		event TransitionEvent
		want  SeminarStatus
	}{
		{StatusDraft, EventSubmit, StatusPendingVerification},
		{StatusPendingVerification, EventVerify, StatusApproved},
		{StatusPendingVerification, EventSendBack, StatusRevising},
		{StatusPendingVerification, EventLecturerReject, StatusCancelled},
		{StatusPendingVerification, EventScheduleConflict, StatusCancelled},
		{StatusPendingVerification, EventCancel, StatusCancelled},
		{StatusApproved, EventSchedule, StatusScheduled},
		{StatusApproved, EventScheduleConflict, StatusCancelled},
		{StatusApproved, EventLecturerReject, StatusCancelled},
		{StatusApproved, EventCancel, StatusCancelled},
		{StatusScheduled, EventFinish, StatusFinished},
		{StatusScheduled, EventCancel, StatusCancelled},
		{StatusRevising, EventResubmit, StatusPendingVerification},
	}

	for _, tc := range cases {
		got, err := Next(tc.from, tc.event)
		if err != nil {
			t.Errorf("Next(%q, %q) returned error: %v", tc.from, tc.event, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Next(%q, %q) = %q, want %q", tc.from, tc.event, got, tc.want)
		}
	}
}

func TestNextIllegalTransitions(t *testing.T) {
	cases := []struct {
		from  SeminarStatus
		event TransitionEvent
	}{
		{StatusDraft, EventVerify},
		{StatusDraft, EventSchedule},
		{StatusCancelled, EventSubmit},
		{StatusCancelled, EventCancel},
		{StatusFinished, EventCancel},
		{StatusScheduled, EventSchedule},
		{StatusApproved, EventVerify},
		{StatusRevising, EventVerify},
	}

	for _, tc := range cases {
		_, err := Next(tc.from, tc.event)
		if err == nil {
			t.Errorf("Next(%q, %q) succeeded, want InvalidTransitionError", tc.from, tc.event)
			continue
		}
		var invalid *InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Errorf("Next(%q, %q) error type = %T, want *InvalidTransitionError", tc.from, tc.event, err)
			continue
		}
		if invalid.From != tc.from || invalid.Event != tc.event {
			t.Errorf("InvalidTransitionError = {%q, %q}, want {%q, %q}",
				invalid.From, invalid.Event, tc.from, tc.event)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(StatusFinished) {
		t.Error("finished should be terminal")
	}
	if !IsTerminal(StatusCancelled) {
		t.Error("cancelled should be terminal")
	}
	if IsTerminal(StatusScheduled) {
		t.Error("scheduled should not be terminal")
	}
}
