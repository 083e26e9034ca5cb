package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateSeminarRequest is the payload for registering a new seminar.
type CreateSeminarRequest struct {
	Title      string  `json:"title" binding:"required,min=3,max=300"`
	Type       string  `json:"type" binding:"required"`
	Abstract   *string `json:"abstract,omitempty" binding:"omitempty,max=5000"`
	FileKey    *string `json:"fileKey,omitempty"`
	Advisor1ID *string `json:"advisor1Id,omitempty" binding:"omitempty,uuid"`
	Advisor2ID *string `json:"advisor2Id,omitempty" binding:"omitempty,uuid"`
	ExaminerID *string `json:"examinerId,omitempty" binding:"omitempty,uuid"`
}

// SubmitSeminarRequest moves a draft into verification. All three lecturer
// roles must be assigned at submission; the approval ledger opens one slot
// per role.
type SubmitSeminarRequest struct {
	Advisor1ID string `json:"advisor1Id" binding:"required,uuid"`
	Advisor2ID string `json:"advisor2Id" binding:"required,uuid"`
	ExaminerID string `json:"examinerId" binding:"required,uuid"`
}

// VerifySeminarRequest is the admin verification decision.
type VerifySeminarRequest struct {
	Note *string `json:"note,omitempty" binding:"omitempty,max=2000"`
}

// SendBackSeminarRequest returns a submission to the student for fixes.
type SendBackSeminarRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=2000"`
}

// ResubmitSeminarRequest carries the corrected submission.
type ResubmitSeminarRequest struct {
	Title    string  `json:"title" binding:"required,min=3,max=300"`
	Abstract *string `json:"abstract,omitempty" binding:"omitempty,max=5000"`
	FileKey  *string `json:"fileKey,omitempty"`
}

// CancelSeminarRequest cancels a seminar with a reason.
type CancelSeminarRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=2000"`
}

// FinishSeminarRequest closes out a held seminar.
type FinishSeminarRequest struct {
	Score *float64 `json:"score,omitempty" binding:"omitempty,gte=0,lte=100"`
	Note  *string  `json:"note,omitempty" binding:"omitempty,max=2000"`
}

// ListSeminarsRequest contains query parameters for listing seminars.
type ListSeminarsRequest struct {
	Status   *string `form:"status"`
	Type     *string `form:"type"`
	Page     int     `form:"page"`
	PageSize int     `form:"pageSize"`
}

// SeminarResponse is the API representation of a seminar.
type SeminarResponse struct {
	ID              uuid.UUID  `json:"id"`
	StudentID       uuid.UUID  `json:"studentId"`
	Title           string     `json:"title"`
	Type            string     `json:"type"`
	Abstract        *string    `json:"abstract,omitempty"`
	FileKey         *string    `json:"fileKey,omitempty"`
	Status          string     `json:"status"`
	Score           *float64   `json:"score,omitempty"`
	Advisor1ID      *uuid.UUID `json:"advisor1Id,omitempty"`
	Advisor2ID      *uuid.UUID `json:"advisor2Id,omitempty"`
	ExaminerID      *uuid.UUID `json:"examinerId,omitempty"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CancelReason    *string    `json:"cancelReason,omitempty"`
	FinalNote       *string    `json:"finalNote,omitempty"`
	FinalAssessedAt *time.Time `json:"finalAssessedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// SeminarListResponse is a paginated list of seminars.
type SeminarListResponse struct {
	Items      []SeminarResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// HistoryEntryResponse is one verification trail entry.
type HistoryEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	SeminarID uuid.UUID `json:"seminarId"`
	Action    string    `json:"action"`
	ActorID   uuid.UUID `json:"actorId"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRevisionItemRequest is a lecturer's post-seminar correction request.
type CreateRevisionItemRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=300"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=5000"`
}

// SubmitRevisionItemRequest is the student's response to a revision item.
type SubmitRevisionItemRequest struct {
	FileKey     *string `json:"fileKey,omitempty"`
	StudentNote *string `json:"studentNote,omitempty" binding:"omitempty,max=2000"`
}

// ValidateRevisionItemRequest is a lecturer's accept/reject decision on a
// submitted revision item.
type ValidateRevisionItemRequest struct {
	Accept          bool    `json:"accept"`
	RejectionReason *string `json:"rejectionReason,omitempty" binding:"omitempty,max=2000"`
}

// RevisionItemResponse is the API representation of a revision item.
type RevisionItemResponse struct {
	ID              uuid.UUID  `json:"id"`
	SeminarID       uuid.UUID  `json:"seminarId"`
	RequestedBy     uuid.UUID  `json:"requestedBy"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Status          string     `json:"status"`
	FileKey         *string    `json:"fileKey,omitempty"`
	StudentNote     *string    `json:"studentNote,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	RevisionCount   int        `json:"revisionCount"`
	ValidatedBy     *uuid.UUID `json:"validatedBy,omitempty"`
	ValidatedAt     *time.Time `json:"validatedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
