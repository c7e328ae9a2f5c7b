package services

import (
	"context"

	"chatvault/internal/domain/models"
)

// CreateConversationRequest is the payload for creating a conversation
type CreateConversationRequest struct {
	Title   string `json:"title"`
	OwnerID string `json:"-"` // set from the authenticated identity, never from the body
}

// ConversationService exposes owner-scoped conversation operations to handlers.
// Callers must already have passed the access decision.
type ConversationService interface {
	CreateConversation(ctx context.Context, req *CreateConversationRequest) (*models.Conversation, error)
	ListConversations(ctx context.Context, ownerID string) ([]models.Conversation, error)
	GetConversation(ctx context.Context, id, ownerID string) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id, ownerID string) error
}
