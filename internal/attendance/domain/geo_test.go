package domain

import (
	"math"
	"testing"
	"time"
)

func TestDistanceMetersZero(t *testing.T) {
	if d := DistanceMeters(-6.3627, 106.8270, -6.3627, 106.8270); d != 0 {
		t.Errorf("identical points should be 0m apart, got %f", d)
	}
}

func TestDistanceMetersKnownPair(t *testing.T) {
	// Roughly 111m per 0.001 degree of latitude at the equator.
	d := DistanceMeters(0, 0, 0.001, 0)
	if math.Abs(d-111.19) > 1 {
		t.Errorf("expected ~111m, got %f", d)
	}
}

func TestWithinGeofence(t *testing.T) {
	roomLat, roomLon := -6.3627, 106.8270

	cases := []struct {
		name     string
		lat, lon float64
		radius   float64
		want     bool
	}{
		{"at anchor", roomLat, roomLon, 50, true},
		{"20m away", roomLat + 0.00018, roomLon, 50, true},
		{"beyond radius", roomLat + 0.001, roomLon, 50, false},
		{"on larger radius", roomLat + 0.001, roomLon, 200, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, d := WithinGeofence(tc.lat, tc.lon, roomLat, roomLon, tc.radius)
			if ok != tc.want {
				t.Errorf("WithinGeofence = %v (distance %.1fm), want %v", ok, d, tc.want)
			}
		})
	}
}

func TestClassifyScan(t *testing.T) {
	policy := WindowPolicy{
		GraceBefore: 15 * time.Minute,
		GraceAfter:  15 * time.Minute,
		LateAfter:   10 * time.Minute,
	}
	start := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	cases := []struct {
		name       string
		scanAt     time.Time
		wantStatus AttendanceStatus
		wantInside bool
	}{
		{"too early", start.Add(-16 * time.Minute), "", false},
		{"window opens", start.Add(-15 * time.Minute), StatusPresent, true},
		{"on time", start, StatusPresent, true},
		{"last on-time minute", start.Add(10 * time.Minute), StatusPresent, true},
		{"just late", start.Add(11 * time.Minute), StatusLate, true},
		{"mid seminar", start.Add(time.Hour), StatusLate, true},
		{"window closes", end.Add(15 * time.Minute), StatusLate, true},
		{"too late", end.Add(16 * time.Minute), "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, inside := policy.ClassifyScan(tc.scanAt, start, end)
			if inside != tc.wantInside {
				t.Fatalf("inside = %v, want %v", inside, tc.wantInside)
			}
			if status != tc.wantStatus {
				t.Errorf("status = %q, want %q", status, tc.wantStatus)
			}
		})
	}
}

func TestResolveScan(t *testing.T) {
	cases := []struct {
		name        string
		timed       AttendanceStatus
		inFence     bool
		hasFallback bool
		wantStatus  AttendanceStatus
		wantManual  bool
	}{
		{"in fence keeps timed status", StatusPresent, true, false, StatusPresent, false},
		{"in fence ignores fallback", StatusLate, true, true, StatusLate, false},
		{"out of fence", StatusPresent, false, false, StatusInvalid, false},
		{"out of fence with fallback", StatusPresent, false, true, StatusInvalid, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := ResolveScan(tc.timed, tc.inFence, tc.hasFallback)
			if out.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", out.Status, tc.wantStatus)
			}
			if out.Manual != tc.wantManual {
				t.Errorf("manual = %v, want %v", out.Manual, tc.wantManual)
			}
		})
	}
}
