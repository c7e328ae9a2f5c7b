// Package session stores anonymous session handles in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chatvault/internal/domain"
	"chatvault/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps anonymous session handles with a TTL
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed session store
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "anon_session:",
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save stores the handle until its ExpiresAt
func (s *RedisStore) Save(ctx context.Context, sess *models.AnonymousSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal anonymous session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("anonymous session %s already expired", sess.ID)
	}

	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save anonymous session: %w", err)
	}
	return nil
}

// Lookup returns the handle, or domain.ErrNotFound if it expired or never existed
func (s *RedisStore) Lookup(ctx context.Context, sessionID string) (*models.AnonymousSession, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("anonymous session %s: %w", sessionID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup anonymous session: %w", err)
	}

	var sess models.AnonymousSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal anonymous session: %w", err)
	}
	return &sess, nil
}

// Delete removes the handle. Deleting a missing handle is not an error.
// Reports whether a handle was removed.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	removed, err := s.client.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("delete anonymous session: %w", err)
	}
	return removed > 0, nil
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
