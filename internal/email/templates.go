package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type notificationEmailData struct {
	Title    string
	Heading  string
	ToName   string
	Body     string
	CTALabel string
	CTAURL   string
}

var notificationTmpl = template.Must(template.ParseFS(templateFS, "templates/notification.html"))

func renderNotification(data notificationEmailData) (string, error) {
	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute notification template: %w", err)
	}
	return buf.String(), nil
}
