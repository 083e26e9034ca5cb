package domain

import (
	"testing"

	seminardomain "seminar_portal_backend/internal/seminar/domain"
)

func decision(role seminardomain.Role, status seminardomain.ApprovalStatus) Decision {
	return Decision{Role: role, Status: status}
}

func TestAggregateAllApproved(t *testing.T) {
	state := Aggregate([]Decision{
		decision(seminardomain.RoleAdvisor1, seminardomain.ApprovalApproved),
		decision(seminardomain.RoleAdvisor2, seminardomain.ApprovalApproved),
		decision(seminardomain.RoleExaminer, seminardomain.ApprovalApproved),
	})

	if !state.AllApproved {
		t.Error("expected AllApproved")
	}
	if state.AnyRejected {
		t.Error("unexpected AnyRejected")
	}
	if len(state.PendingRoles) != 0 {
		t.Errorf("expected no pending roles, got %v", state.PendingRoles)
	}
}

func TestAggregatePartialApproval(t *testing.T) {
	state := Aggregate([]Decision{
		decision(seminardomain.RoleAdvisor1, seminardomain.ApprovalApproved),
		decision(seminardomain.RoleAdvisor2, seminardomain.ApprovalPending),
		decision(seminardomain.RoleExaminer, seminardomain.ApprovalApproved),
	})

	if state.AllApproved {
		t.Error("two approvals must not count as consensus")
	}
	if state.AnyRejected {
		t.Error("unexpected AnyRejected")
	}
	if len(state.PendingRoles) != 1 || state.PendingRoles[0] != seminardomain.RoleAdvisor2 {
		t.Errorf("expected [advisor2] pending, got %v", state.PendingRoles)
	}
}

func TestAggregateSingleRejectionWins(t *testing.T) {
	state := Aggregate([]Decision{
		decision(seminardomain.RoleAdvisor1, seminardomain.ApprovalApproved),
		decision(seminardomain.RoleAdvisor2, seminardomain.ApprovalApproved),
		decision(seminardomain.RoleExaminer, seminardomain.ApprovalRejected),
	})

	if state.AllApproved {
		t.Error("a rejection must block consensus")
	}
	if !state.AnyRejected {
		t.Error("expected AnyRejected")
	}
}

func TestAggregateMissingRolesBlockConsensus(t *testing.T) {
	state := Aggregate([]Decision{
		decision(seminardomain.RoleAdvisor1, seminardomain.ApprovalApproved),
	})

	if state.AllApproved {
		t.Error("a single approval must not count as three-of-three consensus")
	}
	want := []seminardomain.Role{seminardomain.RoleAdvisor2, seminardomain.RoleExaminer}
	if len(state.PendingRoles) != len(want) {
		t.Fatalf("expected %d pending roles, got %v", len(want), state.PendingRoles)
	}
	for i, role := range want {
		if state.PendingRoles[i] != role {
			t.Errorf("pending[%d] = %s, want %s", i, state.PendingRoles[i], role)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	state := Aggregate(nil)

	if state.AllApproved {
		t.Error("empty decision set must not be approved")
	}
	if state.AnyRejected {
		t.Error("empty decision set must not be rejected")
	}
	if len(state.PendingRoles) != len(seminardomain.AllRoles) {
		t.Errorf("expected every role pending, got %v", state.PendingRoles)
	}
}

func TestAggregatePendingRolesOrdered(t *testing.T) {
	state := Aggregate([]Decision{
		decision(seminardomain.RoleExaminer, seminardomain.ApprovalPending),
		decision(seminardomain.RoleAdvisor1, seminardomain.ApprovalPending),
		decision(seminardomain.RoleAdvisor2, seminardomain.ApprovalPending),
	})

	want := []seminardomain.Role{
		seminardomain.RoleAdvisor1,
		seminardomain.RoleAdvisor2,
		seminardomain.RoleExaminer,
	}
	if len(state.PendingRoles) != len(want) {
		t.Fatalf("expected %d pending roles, got %d", len(want), len(state.PendingRoles))
	}
	for i, role := range want {
		if state.PendingRoles[i] != role {
			t.Errorf("pending[%d] = %s, want %s", i, state.PendingRoles[i], role)
		}
	}
}
