package repositories

import (
	"context"

	"chatvault/internal/domain/models"
)

// ConversationRepository defines data access for conversation records.
// Every method is qualified by owner; there is no unscoped lookup.
type ConversationRepository interface {
	// Create inserts a conversation and fills ID, CreatedAt and UpdatedAt
	Create(ctx context.Context, conversation *models.Conversation) error

	// ListByOwner returns the owner's conversations, most recent activity first.
	// Returns an empty slice if there are none.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Conversation, error)

	// GetByID returns the conversation if it exists and belongs to ownerID.
	// Returns domain.ErrNotFound otherwise, including for another owner's record.
	GetByID(ctx context.Context, id, ownerID string) (*models.Conversation, error)

	// Delete soft-deletes the conversation if it belongs to ownerID.
	// Deleting an absent or foreign record is a successful no-op.
	Delete(ctx context.Context, id, ownerID string) error
}
