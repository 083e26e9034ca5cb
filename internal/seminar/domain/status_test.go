package domain

import "testing"

func TestParseSeminarStatusSynonyms(t *testing.T) {
	cases := []struct {
		raw  string
		want SeminarStatus
	}{
		{"draft", StatusDraft},
		{"Menunggu Verifikasi", StatusPendingVerification},
		{"menunggu_verifikasi", StatusPendingVerification},
		{"pending", StatusPendingVerification},
		{"approved", StatusApproved},
		{"Disetujui", StatusApproved},
		{"APPROVED_BY_ADMIN", StatusApproved},
		{"approved-by-admin", StatusApproved},
		{"  dijadwalkan  ", StatusScheduled},
		{"Selesai", StatusFinished},
		{"revisi", StatusRevising},
		{"dibatalkan", StatusCancelled},
		{"canceled", StatusCancelled},
	}

	for _, tc := range cases {
		got, err := ParseSeminarStatus(tc.raw)
		if err != nil {
			t.Errorf("ParseSeminarStatus(%q) returned error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSeminarStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseSeminarStatusRoundTrip(t *testing.T) {
	// All synonyms of "approved" must land on the same canonical value.
	for _, raw := range []string{"Disetujui", "approved", "APPROVED_BY_ADMIN"} {
		got, err := ParseSeminarStatus(raw)
		if err != nil {
			t.Fatalf("ParseSeminarStatus(%q) returned error: %v", raw, err)
		}
		if got != StatusApproved {
			t.Fatalf("ParseSeminarStatus(%q) = %q, want %q", raw, got, StatusApproved)
		}
	}
}

func TestParseSeminarStatusUnknownRejected(t *testing.T) {
	_, err := ParseSeminarStatus("definitely-not-a-status")
	if err == nil {
		t.Fatal("expected error for unknown status, got nil")
	}
	unknown, ok := err.(*UnknownValueError)
	if !ok {
		t.Fatalf("expected *UnknownValueError, got %T", err)
	}
	if unknown.Raw != "definitely-not-a-status" {
		t.Errorf("UnknownValueError.Raw = %q, want original input", unknown.Raw)
	}
}

func TestParseApprovalStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want ApprovalStatus
	}{
		{"pending", ApprovalPending},
		{"Menunggu", ApprovalPending},
		{"setuju", ApprovalApproved},
		{"ACC", ApprovalApproved},
		{"Ditolak", ApprovalRejected},
		{"declined", ApprovalRejected},
	}

	for _, tc := range cases {
		got, err := ParseApprovalStatus(tc.raw)
		if err != nil {
			t.Errorf("ParseApprovalStatus(%q) returned error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseApprovalStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"advisor1", RoleAdvisor1},
		{"Pembimbing 1", RoleAdvisor1},
		{"dosen pembimbing 2", RoleAdvisor2},
		{"penguji", RoleExaminer},
		{"Dosen Penguji", RoleExaminer},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.raw)
		if err != nil {
			t.Errorf("ParseRole(%q) returned error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseSeminarType(t *testing.T) {
	cases := []struct {
		raw  string
		want SeminarType
	}{
		{"sempro", TypeProposal},
		{"Seminar Hasil", TypeResult},
		{"komprehensif", TypeComprehensive},
	}

	for _, tc := range cases {
		got, err := ParseSeminarType(tc.raw)
		if err != nil {
			t.Errorf("ParseSeminarType(%q) returned error: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSeminarType(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
