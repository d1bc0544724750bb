package templates

import (
	"time"
)

// Brand is the sender identity shown in every email.
type Brand struct {
	AppName     string
	CompanyName string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewUserEventData builds the data of a user_event email; typ is one of
// UserAdded, UserUpdated or UserDeleted.
func NewUserEventData(b Brand, typ, name, email string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		AppName:        b.AppName,
		CompanyName:    b.CompanyName,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
