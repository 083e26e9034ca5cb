package transport

import (
	"time"

	"github.com/google/uuid"
)

// ScanRequest is a student's QR scan with their device position. A scan
// outside the geofence may carry a fallback reason; it is then recorded as
// a manual entry for an admin to settle.
type ScanRequest struct {
	Token          string  `json:"token" binding:"required,uuid"`
	Latitude       float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude      float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	FallbackReason *string `json:"fallbackReason,omitempty" binding:"omitempty,min=3,max=2000"`
}

// ManualEntryRequest is an administrator's direct attendance entry. It
// bypasses the QR token and the geofence.
type ManualEntryRequest struct {
	ScheduleID string  `json:"scheduleId" binding:"required,uuid"`
	StudentID  string  `json:"studentId" binding:"required,uuid"`
	Status     string  `json:"status" binding:"required,oneof=present late absent"`
	Note       *string `json:"note,omitempty" binding:"omitempty,max=2000"`
}

// RequestRevisionRequest contests a recorded attendance status.
type RequestRevisionRequest struct {
	RequestedStatus string  `json:"requestedStatus" binding:"required,oneof=present late"`
	Reason          string  `json:"reason" binding:"required,min=3,max=2000"`
	EvidenceKey     *string `json:"evidenceKey,omitempty"`
}

// DecideRevisionRequest is the administrator's verdict on a revision
// request.
type DecideRevisionRequest struct {
	Approve bool    `json:"approve"`
	Note    *string `json:"note,omitempty" binding:"omitempty,max=2000"`
}

// LecturerCheckInRequest records a lecturer's presence at a schedule.
type LecturerCheckInRequest struct {
	ScheduleID string `json:"scheduleId" binding:"required,uuid"`
}

// AttendanceResponse is the API representation of an attendance record.
type AttendanceResponse struct {
	ID         uuid.UUID  `json:"id"`
	ScheduleID uuid.UUID  `json:"scheduleId"`
	SeminarID  uuid.UUID  `json:"seminarId"`
	StudentID  uuid.UUID  `json:"studentId"`
	Status     string     `json:"status"`
	Method     string     `json:"method"`
	DistanceM  *float64   `json:"distanceM,omitempty"`
	Note       *string    `json:"note,omitempty"`
	RecordedBy *uuid.UUID `json:"recordedBy,omitempty"`
	ScannedAt  time.Time  `json:"scannedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// RevisionResponse is the API representation of a revision request.
type RevisionResponse struct {
	ID              uuid.UUID  `json:"id"`
	AttendanceID    uuid.UUID  `json:"attendanceId"`
	ScheduleID      uuid.UUID  `json:"scheduleId"`
	StudentID       uuid.UUID  `json:"studentId"`
	OldStatus       string     `json:"oldStatus"`
	RequestedStatus string     `json:"requestedStatus"`
	Reason          string     `json:"reason"`
	EvidenceKey     *string    `json:"evidenceKey,omitempty"`
	Status          string     `json:"status"`
	DecisionNote    *string    `json:"decisionNote,omitempty"`
	DecidedBy       *uuid.UUID `json:"decidedBy,omitempty"`
	DecidedAt       *time.Time `json:"decidedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// LecturerAttendanceResponse is the API representation of a lecturer
// check-in.
type LecturerAttendanceResponse struct {
	ID          uuid.UUID  `json:"id"`
	ScheduleID  uuid.UUID  `json:"scheduleId"`
	SeminarID   uuid.UUID  `json:"seminarId"`
	LecturerID  uuid.UUID  `json:"lecturerId"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	CheckedInAt time.Time  `json:"checkedInAt"`
	VerifiedBy  *uuid.UUID `json:"verifiedBy,omitempty"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty"`
}
