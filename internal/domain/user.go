package domain

import "strings"

// User identifies the caller of a task operation. Authentication happens
// at the HTTP boundary; the service layer only needs the email, which is
// also the ownership key for tasks.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
