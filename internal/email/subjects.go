package email

var subjects = map[string]string{
	"seminar_submitted":        "New seminar submission",
	"seminar_verified_student": "Your seminar passed verification",
	"approval_requested":       "Seminar approval requested",
	"approval_consensus":       "All lecturer approvals are in",
	"schedule_requested":       "Seminar ready to be scheduled",
	"seminar_rejected":         "Seminar rejected",
	"seminar_cancelled":        "Seminar cancelled",
	"seminar_scheduled":        "Seminar scheduled",
	"seminar_rescheduled":      "Seminar rescheduled",
	"seminar_finished":         "Seminar finished",
	"revision_item_requested":  "Revision requested on your seminar",
	"seminar_reminder":         "Upcoming seminar reminder",
}

// SubjectFor returns the subject line for a template kind.
func SubjectFor(template string) string {
	if s, ok := subjects[template]; ok {
		return s
	}
	return "Seminar portal notification"
}
