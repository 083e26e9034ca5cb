package transport

import (
	"time"

	"github.com/google/uuid"
)

// RespondApprovalRequest is a lecturer's decision on their approval slot.
// Decision accepts the canonical values plus their legacy spellings; they
// are normalized before use.
type RespondApprovalRequest struct {
	Decision       string   `json:"decision" binding:"required"`
	Note           *string  `json:"note,omitempty" binding:"omitempty,max=2000"`
	AvailableDates []string `json:"availableDates,omitempty" binding:"omitempty,dive,datetime=2006-01-02"`
}

// ApprovalResponse is the API representation of one approval slot.
type ApprovalResponse struct {
	ID             uuid.UUID   `json:"id"`
	SeminarID      uuid.UUID   `json:"seminarId"`
	LecturerID     uuid.UUID   `json:"lecturerId"`
	Role           string      `json:"role"`
	Status         string      `json:"status"`
	Note           *string     `json:"note,omitempty"`
	AvailableDates []time.Time `json:"availableDates,omitempty"`
	DecidedAt      *time.Time  `json:"decidedAt,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// SeminarApprovalsResponse bundles a seminar's approval slots with the
// consensus summary.
type SeminarApprovalsResponse struct {
	SeminarID    uuid.UUID          `json:"seminarId"`
	Approvals    []ApprovalResponse `json:"approvals"`
	AllApproved  bool               `json:"allApproved"`
	AnyRejected  bool               `json:"anyRejected"`
	PendingRoles []string           `json:"pendingRoles"`
	CommonDates  []time.Time        `json:"commonDates,omitempty"`
}

// HistoryEntryResponse is one approval trail entry.
type HistoryEntryResponse struct {
	ID         uuid.UUID `json:"id"`
	ApprovalID uuid.UUID `json:"approvalId"`
	SeminarID  uuid.UUID `json:"seminarId"`
	LecturerID uuid.UUID `json:"lecturerId"`
	Role       string    `json:"role"`
	Action     string    `json:"action"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
