package access

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"chatvault/internal/domain"
	"chatvault/internal/domain/models"
)

var errProviderDown = errors.New("provider unavailable")

// memoryMetadataStore keeps metadata bags in memory and merges writes the
// way the real backends do.
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
		return false, errProviderDown
	}
	return s.bag(id).Approved(), nil
}

func (s *memoryMetadataStore) SetApproval(_ context.Context, id string, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.fail {
		return errProviderDown
	}
	s.bags[id] = s.bag(id).Merge(models.JSONMap{models.MetadataKeyApproved: approved})
	return nil
}

func (s *memoryMetadataStore) GetAccessRequest(_ context.Context, id string) (*models.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.fail {
		return nil, errProviderDown
	}
	return s.bag(id).AccessRequest(), nil
}

func (s *memoryMetadataStore) SetAccessRequest(_ context.Context, id string, requested bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.fail {
		return errProviderDown
	}
	s.bags[id] = s.bag(id).Merge(models.AccessRequestPatch(requested, at))
	return nil
}

// staticResolver maps tokens to identity ids
type staticResolver map[string]string

func (r staticResolver) Resolve(_ context.Context, token string) (string, error) {
	id, ok := r[token]
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// steppingClock returns a later time on every call
func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}
