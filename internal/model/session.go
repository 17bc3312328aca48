package model

import "time"

// Actor identifies who performed a change, for activity attribution.
type Actor struct {
	ID   string
	Name string
}

// Session is the signed-in user context passed to operations that need
// an identity.
type Session struct {
	User     User      `json:"user"`
	Token    string    `json:"-"`
	IssuedAt time.Time `json:"issuedAt"`
}

// Actor returns the session user as an activity actor.
func (s Session) Actor() Actor {
	return Actor{ID: s.User.ID, Name: s.User.Name}
}
