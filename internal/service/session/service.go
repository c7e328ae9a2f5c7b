package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chatvault/internal/domain"
	"chatvault/internal/domain/models"
	"chatvault/internal/domain/services"
)

// Store persists anonymous session handles
type Store interface {
	Save(ctx context.Context, sess *models.AnonymousSession) error
	Lookup(ctx context.Context, sessionID string) (*models.AnonymousSession, error)
	Delete(ctx context.Context, sessionID string) (bool, error)
}

// Service issues anonymous handles and retires them once the client has
// signed in. Handles are never linked to conversation ownership.
type Service struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates an anonymous session service
func NewService(store Store, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

var _ services.AnonymousSessionService = (*Service)(nil)

// Issue creates a new handle
func (s *Service) Issue(ctx context.Context) (*models.AnonymousSession, error) {
	now := s.now().UTC()
	sess := &models.AnonymousSession{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Debug("anonymous session issued", "session_id", sess.ID)
	return sess, nil
}

// Supersede retires the handle now that identityID is established.
// Unknown or expired handles are a successful no-op.
func (s *Service) Supersede(ctx context.Context, sessionID, identityID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil
	}

	if _, err := s.store.Lookup(ctx, sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("supersede anonymous session: %w", err)
	}

	removed, err := s.store.Delete(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("supersede anonymous session: %w", err)
	}

	if removed {
		s.logger.Info("anonymous session superseded",
			"session_id", sessionID,
			"identity_id", identityID,
		)
	}
	return nil
}
