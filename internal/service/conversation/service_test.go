package conversation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"chatvault/internal/domain"
	"chatvault/internal/domain/models"
	"chatvault/internal/domain/services"
)

// memoryRepository is an owner-scoped in-memory ConversationRepository
type memoryRepository struct {
	mu      sync.Mutex
	records map[string]models.Conversation
	fail    error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: map[string]models.Conversation{}}
}

func (r *memoryRepository) Create(_ context.Context, c *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	c.ID = uuid.NewString()
	r.records[c.ID] = *c
	return nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
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

func (r *memoryRepository) GetByID(_ context.Context, id, ownerID string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	c, ok := r.records[id]
	if !ok || c.OwnerID != ownerID || c.DeletedAt != nil {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *memoryRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
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

func newTestService() (*Service, *memoryRepository) {
	repo := newMemoryRepository()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func mustCreate(t *testing.T, svc *Service, owner, title string) *models.Conversation {
	t.Helper()
	c, err := svc.CreateConversation(context.Background(), &services.CreateConversationRequest{OwnerID: owner, Title: title})
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	return c
}

func TestConversationRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created := mustCreate(t, svc, "user-1", "  Trip planning  ")
	if created.Title != "Trip planning" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}

	list, err := svc.ListConversations(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected list to contain created conversation, got %+v", list)
	}

	got, err := svc.GetConversation(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if got.ID != created.ID || got.Title != created.Title || got.OwnerID != "user-1" || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("record changed between create and get: %+v vs %+v", got, created)
	}

	if err := svc.DeleteConversation(ctx, created.ID, "user-1"); err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}

	if _, err := svc.GetConversation(ctx, created.ID, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestForeignRecordLooksAbsent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	owned := mustCreate(t, svc, "owner", "private")
	missing := uuid.NewString()

	for _, id := range []string{owned.ID, missing} {
		_, getErr := svc.GetConversation(ctx, id, "intruder")
		if !errors.Is(getErr, domain.ErrNotFound) {
			t.Errorf("get %s: expected ErrNotFound, got %v", id, getErr)
		}
		delErr := svc.DeleteConversation(ctx, id, "intruder")
		if !errors.Is(delErr, domain.ErrNotFound) {
			t.Errorf("delete %s: expected ErrNotFound, got %v", id, delErr)
		}
	}

	// The owner's record survives the foreign delete attempt
	if _, err := svc.GetConversation(ctx, owned.ID, "owner"); err != nil {
		t.Errorf("owner lost access after foreign delete: %v", err)
	}

	list, err := svc.ListConversations(ctx, "intruder")
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("foreign list leaked records: %+v", list)
	}
}

func TestListOrdersByRecentActivity(t *testing.T) {
	svc, _ := newTestService()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	svc.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Hour)
	}

	first := mustCreate(t, svc, "user-1", "first")
	second := mustCreate(t, svc, "user-1", "second")
	third := mustCreate(t, svc, "user-1", "third")

	list, err := svc.ListConversations(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}

	want := []string{third.ID, second.ID, first.ID}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, list[i].ID, id)
		}
	}
}

func TestListEmpty(t *testing.T) {
	svc, _ := newTestService()

	list, err := svc.ListConversations(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", list)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, id := range []string{"", "abc", "1; DROP TABLE x"} {
		if _, err := svc.GetConversation(ctx, id, "user-1"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("get %q: expected ErrNotFound, got %v", id, err)
		}
		if err := svc.DeleteConversation(ctx, id, "user-1"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("delete %q: expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  services.CreateConversationRequest
	}{
		{name: "empty title", req: services.CreateConversationRequest{OwnerID: "user-1", Title: ""}},
		{name: "blank title", req: services.CreateConversationRequest{OwnerID: "user-1", Title: "   "}},
		{name: "title too long", req: services.CreateConversationRequest{OwnerID: "user-1", Title: strings.Repeat("x", 256)}},
		{name: "missing owner", req: services.CreateConversationRequest{Title: "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			req := tt.req
			if _, err := svc.CreateConversation(context.Background(), &req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestStoreFaultPropagates(t *testing.T) {
	svc, repo := newTestService()
	repo.fail = errors.New("connection reset")

	_, err := svc.ListConversations(context.Background(), "user-1")
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected store fault, got %v", err)
	}
}
