package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"chatvault/internal/config"
	"chatvault/internal/domain"
	"chatvault/internal/domain/models"
	"chatvault/internal/domain/repositories"
	"chatvault/internal/domain/services"
)

// Service implements the ConversationService interface.
// It only reasons about ownership; access decisions happen before it is called.
type Service struct {
	repo   repositories.ConversationRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a new conversation service
func NewService(repo repositories.ConversationRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

var _ services.ConversationService = (*Service)(nil)

// CreateConversation creates a conversation owned by req.OwnerID
func (s *Service) CreateConversation(ctx context.Context, req *services.CreateConversationRequest) (*models.Conversation, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.now()
	conversation := &models.Conversation{
		OwnerID:   req.OwnerID,
		Title:     req.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, conversation); err != nil {
		return nil, err
	}

	s.logger.Info("conversation created",
		"id", conversation.ID,
		"owner_id", conversation.OwnerID,
	)

	return conversation, nil
}

// ListConversations returns the owner's conversations, most recent first
func (s *Service) ListConversations(ctx context.Context, ownerID string) ([]models.Conversation, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetConversation returns the conversation if ownerID owns it.
// Malformed ids read as not found.
func (s *Service) GetConversation(ctx context.Context, id, ownerID string) (*models.Conversation, error) {
	if !validID(id) {
		return nil, fmt.Errorf("conversation %q: %w", id, domain.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id, ownerID)
}

// DeleteConversation reports ErrNotFound unless ownerID owns the conversation,
// then deletes it. The repository delete itself is idempotent.
func (s *Service) DeleteConversation(ctx context.Context, id, ownerID string) error {
	if _, err := s.GetConversation(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("conversation deleted",
		"id", id,
		"owner_id", ownerID,
	)

	return nil
}

func (s *Service) validateCreateRequest(req *services.CreateConversationRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxConversationTitleLength),
		),
	)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
