package models

import "time"

// Conversation is a conversation record owned by exactly one identity.
// OwnerID is set at creation and never changes.
type Conversation struct {
	ID        string     `json:"id" db:"id"`
	OwnerID   string     `json:"owner_id" db:"owner_id"`
	Title     string     `json:"title" db:"title"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"` // last activity
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
