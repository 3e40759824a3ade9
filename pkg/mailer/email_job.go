package mailer

import (
	"errors"
	"strings"

	mailtpl "github.com/oksasatya/go-user-registration/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+ Data) or a ready Subject/Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}

var ErrNoRecipient = errors.New("email job has no recipient")

// Message is a rendered email ready to send.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Prepare resolves the recipient and renders the job's template, if any.
func Prepare(job EmailJob) (Message, error) {
	to := strings.TrimSpace(job.To)
	if to == "" {
		if v, ok := job.Data["RecipientEmail"].(string); ok {
			to = strings.TrimSpace(v)
		}
	}
	if to == "" {
		return Message{}, ErrNoRecipient
	}

	msg := Message{To: to, Subject: job.Subject, Text: job.Text, HTML: job.HTML}
	if job.Template == "" {
		return msg, nil
	}
	s, t, h, err := mailtpl.Render(strings.ToLower(job.Template), job.Data)
	if err != nil {
		return Message{}, err
	}
	msg.Subject, msg.Text, msg.HTML = s, t, h
	return msg, nil
}
