package domain

import "time"

// Session is the authenticated identity of a browser client, as last
// confirmed by the user backend. A session exists only after a successful
// bootstrap; there is no partially-authenticated state.
type Session struct {
	User        *User
	ConfirmedAt time.Time
}
