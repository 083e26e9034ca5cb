package domain

import "time"

// AttendanceStatus is the outcome recorded for a scan.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusInvalid AttendanceStatus = "invalid"
	StatusAbsent  AttendanceStatus = "absent"
)

// WindowPolicy bounds when a scan is accepted and when it counts as late,
// all relative to the schedule start.
type WindowPolicy struct {
	GraceBefore time.Duration
	GraceAfter  time.Duration
	LateAfter   time.Duration
}

// ClassifyScan places a scan instant against the schedule window.
// Scans before start-GraceBefore or after end+GraceAfter are outside the
// window entirely; within it, arrival more than LateAfter past start is
// late, otherwise present.
func (p WindowPolicy) ClassifyScan(scanAt, start, end time.Time) (AttendanceStatus, bool) {
	opens := start.Add(-p.GraceBefore)
	closes := end.Add(p.GraceAfter)
	if scanAt.Before(opens) || scanAt.After(closes) {
		return "", false
	}

	if scanAt.After(start.Add(p.LateAfter)) {
		return StatusLate, true
	}
	return StatusPresent, true
}

// ScanOutcome is the recording decision for an in-window scan.
type ScanOutcome struct {
	Status AttendanceStatus
	// Manual marks the record as a manual fallback entry rather than a
	// verified QR scan.
	Manual bool
}

// ResolveScan applies the geofence policy to a time-classified scan. Inside
// the fence the timed status stands. Outside it the scan is still recorded
// as invalid; a student-supplied fallback reason additionally flips the
// method to manual, leaving the final status to an admin.
func ResolveScan(timed AttendanceStatus, inFence, hasFallback bool) ScanOutcome {
	if inFence {
		return ScanOutcome{Status: timed}
	}
	return ScanOutcome{Status: StatusInvalid, Manual: hasFallback}
}
