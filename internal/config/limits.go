package config

const (
	// MaxConversationTitleLength is the maximum length for conversation titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxConversationTitleLength = 255

	// MaxIdentityIDLength bounds identity ids accepted on the admin path.
	MaxIdentityIDLength = 255
)
