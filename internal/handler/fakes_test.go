package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatvault/internal/domain"
	"chatvault/internal/domain/models"
)

var errBackendDown = errors.New("backend unavailable")

// memoryMetadataStore is an in-memory identity metadata backend
type memoryMetadataStore struct {
	mu     sync.Mutex
	bags   map[string]models.JSONMap
	fail   bool
	reads  int
	writes int
}

func newMemoryMetadataStore() *memoryMetadataStore {
	return &memoryMetadataStore{bags: map[string]models.JSONMap{}}
}

func (s *memoryMetadataStore) bag(id string) models.JSONMap {
	if s.bags[id] == nil {
		s.bags[id] = models.JSONMap{}
	}
	return s.bags[id]
}

func (s *memoryMetadataStore) GetApproval(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.fail {
		return false, errBackendDown
	}
	return s.bag(id).Approved(), nil
}

func (s *memoryMetadataStore) SetApproval(_ context.Context, id string, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.fail {
		return errBackendDown
	}
	s.bags[id] = s.bag(id).Merge(models.JSONMap{models.MetadataKeyApproved: approved})
	return nil
}

func (s *memoryMetadataStore) GetAccessRequest(_ context.Context, id string) (*models.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.fail {
		return nil, errBackendDown
	}
	return s.bag(id).AccessRequest(), nil
}

func (s *memoryMetadataStore) SetAccessRequest(_ context.Context, id string, requested bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.fail {
		return errBackendDown
	}
	s.bags[id] = s.bag(id).Merge(models.AccessRequestPatch(requested, at))
	return nil
}

func (s *memoryMetadataStore) counts() (reads, writes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads, s.writes
}

// tokenResolver maps bearer tokens to identity ids
type tokenResolver map[string]string

func (r tokenResolver) Resolve(_ context.Context, token string) (string, error) {
	id, ok := r[token]
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}

// memoryConversations is an owner-scoped in-memory ConversationRepository
type memoryConversations struct {
	mu      sync.Mutex
	records map[string]models.Conversation
	fail    bool
}

func newMemoryConversations() *memoryConversations {
	return &memoryConversations{records: map[string]models.Conversation{}}
}

func (r *memoryConversations) Create(_ context.Context, c *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errBackendDown
	}
	c.ID = uuid.NewString()
	r.records[c.ID] = *c
	return nil
}

func (r *memoryConversations) ListByOwner(_ context.Context, ownerID string) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errBackendDown
	}
	out := []models.Conversation{}
	for _, c := range r.records {
		if c.OwnerID == ownerID && c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memoryConversations) GetByID(_ context.Context, id, ownerID string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return nil, errBackendDown
	}
	c, ok := r.records[id]
	if !ok || c.OwnerID != ownerID || c.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *memoryConversations) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errBackendDown
	}
	c, ok := r.records[id]
	if !ok || c.OwnerID != ownerID || c.DeletedAt != nil {
		return nil
	}
	now := time.Now()
	c.DeletedAt = &now
	r.records[id] = c
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
