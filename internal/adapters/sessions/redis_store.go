// Package sessions persists wizard sessions. Redis is the primary store;
// the in-memory store backs single-instance deployments and tests, and is
// the fallback when Redis is unreachable at startup.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/entities"
	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/domain/repositories"
	redisclient "github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/clients/redis"
)

const sessionKeyPrefix = "wizard:session:"

// RedisStore implements SessionStore on Redis with per-key TTL.
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redisclient.Client) repositories.SessionStore {
	return &RedisStore{client: client}
}

// Get loads a session by id.
func (s *RedisStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	data, err := s.client.Client().Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, repositories.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session entities.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt record is unrecoverable; treat it as expired.
		return nil, repositories.ErrSessionNotFound
	}
	return &session, nil
}

// Save replaces the session and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, session *entities.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Client().Set(ctx, sessionKeyPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Client().Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
