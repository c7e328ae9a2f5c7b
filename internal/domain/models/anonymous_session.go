package models

import "time"

// AnonymousSession is a handle given to a client before it has signed in.
// It is retired once an identity is established and never owns conversations.
type AnonymousSession struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
