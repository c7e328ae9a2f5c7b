package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	sessionstore "chatvault/internal/session"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := sessionstore.NewRedisStore(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestIssueAndSupersede(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !sess.ExpiresAt.Equal(sess.CreatedAt.Add(time.Hour)) {
		t.Errorf("unexpected expiry: %v", sess.ExpiresAt)
	}
	if len(mr.Keys()) != 1 {
		t.Fatalf("expected one stored handle, got %v", mr.Keys())
	}

	if err := svc.Supersede(ctx, sess.ID, "user-1"); err != nil {
		t.Fatalf("Supersede failed: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Errorf("expected handle to be retired, still have %v", mr.Keys())
	}

	// Second call is a no-op
	if err := svc.Supersede(ctx, sess.ID, "user-1"); err != nil {
		t.Errorf("repeated Supersede failed: %v", err)
	}
}

func TestSupersedeUnknownHandles(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"not-a-uuid", "6f1c2a4e-8e59-4a3a-9d55-0c3a8d1f4b21"} {
		if err := svc.Supersede(ctx, id, "user-1"); err != nil {
			t.Errorf("Supersede(%q) failed: %v", id, err)
		}
	}
}

func TestSupersedeStoreFailure(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	mr.Close()
	if err := svc.Supersede(ctx, sess.ID, "user-1"); err == nil {
		t.Error("expected error when redis is down, got nil")
	}
}
