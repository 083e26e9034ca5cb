// Package domain holds the pure seminar workflow rules: the canonical
// status vocabularies, the legacy-synonym normalizer, and the status
// transition table. Nothing in this package touches the database.
package domain

import (
	"fmt"
	"strings"
)

// SeminarStatus is the canonical seminar lifecycle status.
type SeminarStatus string

const (
	StatusDraft               SeminarStatus = "draft"
	StatusPendingVerification SeminarStatus = "pending_verification"
	StatusApproved            SeminarStatus = "approved"
	StatusScheduled           SeminarStatus = "scheduled"
	StatusFinished            SeminarStatus = "finished"
	StatusRevising            SeminarStatus = "revising"
	StatusCancelled           SeminarStatus = "cancelled"
)

// SeminarType is the kind of defense the seminar represents.
type SeminarType string

const (
	TypeProposal      SeminarType = "proposal"
	TypeResult        SeminarType = "result"
	TypeComprehensive SeminarType = "comprehensive"
)

// ApprovalStatus is the canonical per-lecturer approval status.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Role is the lecturer role on a seminar.
type Role string

const (
	RoleAdvisor1 Role = "advisor1"
	RoleAdvisor2 Role = "advisor2"
	RoleExaminer Role = "examiner"
)

// AllRoles lists the three lecturer roles every seminar must fill.
var AllRoles = []Role{RoleAdvisor1, RoleAdvisor2, RoleExaminer}

// UnknownValueError is returned when a raw string cannot be normalized into
// any canonical value of its domain. Unrecognized values are rejected rather
// than stored; the legacy system silently passed them through, which let
// uncontrolled strings leak into persisted state.
type UnknownValueError struct {
	Domain string
	Raw    string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s value: %q", e.Domain, e.Raw)
}

// Synonym tables. Keys are normalized (lower case, separator runs collapsed
// to a single underscore). The tables absorb both the English and the
// Indonesian vocabulary the two legacy trees used.

var seminarStatusSynonyms = map[string]SeminarStatus{
	"draft":                StatusDraft,
	"draf":                 StatusDraft,
	"pending_verification": StatusPendingVerification,
	"pending":              StatusPendingVerification,
	"submitted":            StatusPendingVerification,
	"menunggu_verifikasi":  StatusPendingVerification,
	"diajukan":             StatusPendingVerification,
	"approved":             StatusApproved,
	"approved_by_admin":    StatusApproved,
	"verified":             StatusApproved,
	"disetujui":            StatusApproved,
	"terverifikasi":        StatusApproved,
	"scheduled":            StatusScheduled,
	"dijadwalkan":          StatusScheduled,
	"terjadwal":            StatusScheduled,
	"finished":             StatusFinished,
	"done":                 StatusFinished,
	"completed":            StatusFinished,
	"selesai":              StatusFinished,
	"revising":             StatusRevising,
	"revision":             StatusRevising,
	"revisi":               StatusRevising,
	"perlu_revisi":         StatusRevising,
	"cancelled":            StatusCancelled,
	"canceled":             StatusCancelled,
	"dibatalkan":           StatusCancelled,
	"batal":                StatusCancelled,
}

var seminarTypeSynonyms = map[string]SeminarType{
	"proposal":         TypeProposal,
	"seminar_proposal": TypeProposal,
	"sempro":           TypeProposal,
	"result":           TypeResult,
	"hasil":            TypeResult,
	"seminar_hasil":    TypeResult,
	"semhas":           TypeResult,
	"comprehensive":    TypeComprehensive,
	"komprehensif":     TypeComprehensive,
	"kompre":           TypeComprehensive,
}

var approvalStatusSynonyms = map[string]ApprovalStatus{
	"pending":   ApprovalPending,
	"menunggu":  ApprovalPending,
	"belum":     ApprovalPending,
	"approved":  ApprovalApproved,
	"disetujui": ApprovalApproved,
	"setuju":    ApprovalApproved,
	"acc":       ApprovalApproved,
	"rejected":  ApprovalRejected,
	"ditolak":   ApprovalRejected,
	"tolak":     ApprovalRejected,
	"declined":  ApprovalRejected,
}

var roleSynonyms = map[string]Role{
	"advisor1":           RoleAdvisor1,
	"advisor_1":          RoleAdvisor1,
	"pembimbing1":        RoleAdvisor1,
	"pembimbing_1":       RoleAdvisor1,
	"dosen_pembimbing_1": RoleAdvisor1,
	"advisor2":           RoleAdvisor2,
	"advisor_2":          RoleAdvisor2,
	"pembimbing2":        RoleAdvisor2,
	"pembimbing_2":       RoleAdvisor2,
	"dosen_pembimbing_2": RoleAdvisor2,
	"examiner":           RoleExaminer,
	"penguji":            RoleExaminer,
	"dosen_penguji":      RoleExaminer,
}

// normalizeKey lower-cases the raw value and collapses runs of spaces,
// hyphens, and dots into single underscores so case and separator variants
// of the same word normalize to one lookup key.
func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(lowered))
	lastSep := false
	for _, r := range lowered {
		switch r {
		case ' ', '\t', '-', '.', '_':
			if !lastSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			lastSep = true
		default:
			b.WriteRune(r)
			lastSep = false
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ParseSeminarStatus normalizes a raw status string to its canonical value.
func ParseSeminarStatus(raw string) (SeminarStatus, error) {
	if status, ok := seminarStatusSynonyms[normalizeKey(raw)]; ok {
		return status, nil
	}
	return "", &UnknownValueError{Domain: "seminar status", Raw: raw}
}

// ParseSeminarType normalizes a raw seminar type string to its canonical value.
func ParseSeminarType(raw string) (SeminarType, error) {
	if t, ok := seminarTypeSynonyms[normalizeKey(raw)]; ok {
		return t, nil
	}
	return "", &UnknownValueError{Domain: "seminar type", Raw: raw}
}

// ParseApprovalStatus normalizes a raw approval status string to its
// canonical value.
func ParseApprovalStatus(raw string) (ApprovalStatus, error) {
	if status, ok := approvalStatusSynonyms[normalizeKey(raw)]; ok {
		return status, nil
	}
	return "", &UnknownValueError{Domain: "approval status", Raw: raw}
}

// ParseRole normalizes a raw lecturer role string to its canonical value.
func ParseRole(raw string) (Role, error) {
	if role, ok := roleSynonyms[normalizeKey(raw)]; ok {
		return role, nil
	}
	return "", &UnknownValueError{Domain: "lecturer role", Raw: raw}
}
