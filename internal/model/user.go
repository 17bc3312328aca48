package model

import "strings"

// User is a member of the workspace directory.
type User struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`

	// Avatar is either an image URL or an embedded data URI.
	Avatar string `json:"avatar" db:"avatar"`
}

// SameEmail reports whether the user's email matches email, ignoring case
// and surrounding whitespace.
func (u User) SameEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}
