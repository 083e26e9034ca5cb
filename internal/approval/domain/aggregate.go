// Package domain holds the pure approval consensus rules. Scheduling can
// only begin once all three lecturer roles have approved; a single
// rejection is final.
package domain

import (
	seminardomain "seminar_portal_backend/internal/seminar/domain"
)

// Decision is one lecturer's standing answer on a seminar role.
type Decision struct {
	Role   seminardomain.Role
	Status seminardomain.ApprovalStatus
}

// AggregateState summarizes the decisions across the three roles.
type AggregateState struct {
	// AllApproved is true only when every role in AllRoles has approved.
	AllApproved bool
	// AnyRejected is true when at least one role has rejected.
	AnyRejected bool
	// PendingRoles lists the roles still awaiting a decision, in the
	// canonical role order. A role with no decision row counts as pending.
	PendingRoles []seminardomain.Role
}

// Aggregate folds a set of role decisions into the consensus state.
// Consensus is three-of-three: a role without a decision row blocks
// AllApproved exactly like an undecided slot, so a partial ledger can
// never look fully approved.
func Aggregate(decisions []Decision) AggregateState {
	state := AggregateState{AllApproved: true}

	byRole := make(map[seminardomain.Role]seminardomain.ApprovalStatus, len(decisions))
	for _, d := range decisions {
		byRole[d.Role] = d.Status
	}

	for _, role := range seminardomain.AllRoles {
		switch byRole[role] {
		case seminardomain.ApprovalApproved:
		case seminardomain.ApprovalRejected:
			state.AnyRejected = true
			state.AllApproved = false
		default:
			state.PendingRoles = append(state.PendingRoles, role)
			state.AllApproved = false
		}
	}

	return state
}
