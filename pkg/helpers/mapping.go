package helpers

import (
	"fmt"

	"github.com/oksasatya/go-user-management/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-management/pkg/mailer/templates"
)

// EnsureRecipientAndEmail fills Email/RecipientEmail from job.To when the
// producer left them out.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// MapEventTemplate lets producers name the event ("user_added", ...) as the
// template; such jobs are rendered with the shared user_event template.
func MapEventTemplate(job *mailer.EmailJob) {
	switch job.Template {
	case mailtpl.UserAdded, mailtpl.UserUpdated, mailtpl.UserDeleted:
		if job.Data == nil {
			job.Data = map[string]any{}
		}
		if v, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
			job.Data["Type"] = job.Template
		}
		job.Template = mailtpl.UserEvent
	}
}
