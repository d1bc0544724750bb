package mailer

import "errors"

// EmailJob is the JSON message queued for the email worker. A job either
// names a Template rendered with Data, or carries Subject and a body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "user_event"
	Data     map[string]any `json:"data,omitempty"`
}

var (
	ErrNoRecipient = errors.New("email job has no recipient")
	ErrNoContent   = errors.New("email job has neither template nor body")
)

// Validate reports jobs that can never be delivered.
func (j *EmailJob) Validate() error {
	if j.To == "" {
		return ErrNoRecipient
	}
	if j.Template == "" && j.Text == "" && j.HTML == "" {
		return ErrNoContent
	}
	return nil
}
