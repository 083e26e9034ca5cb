package outbox

// KindEmail marks outbox rows that carry an EmailPayload.
const KindEmail = "email"

// EmailPayload is the stored payload for an email delivery. The scheduler
// worker unmarshals it and hands it to the SMTP sender.
type EmailPayload struct {
	ToEmail  string `json:"toEmail"`
	ToName   string `json:"toName"`
	Template string `json:"template"`
	Subject  string `json:"subject,omitempty"`
	Heading  string `json:"heading"`
	Body     string `json:"body"`
}
