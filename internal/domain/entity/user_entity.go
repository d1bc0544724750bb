package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Image holds the stored filename of the profile picture, or "" when the
// user has none.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserFields are the mutable attributes of a User. Updates replace all of
// them at once.
type UserFields struct {
	Name  string
	Email string
	Phone string
	Image string
}

// Apply overwrites every mutable attribute of u with f.
func (u *User) Apply(f UserFields) {
	u.Name = f.Name
	u.Email = f.Email
	u.Phone = f.Phone
	u.Image = f.Image
}
