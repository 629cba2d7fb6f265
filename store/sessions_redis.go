package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trendcast/types"
)

const sessionKeyPrefix = "trendcast:session:"

// RedisSessionStore keeps session records in Redis with a TTL equal to the
// remaining refresh-token lifetime. Useful when the frontend and API run as
// more than one process; domain state stays in memory regardless.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore connects to Redis and verifies the connection.
func NewRedisSessionStore(addr, password string) (*RedisSessionStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisSessionStore{client: rdb}, nil
}

// Save writes the session record, expiring it with the refresh token.
func (s *RedisSessionStore) Save(ctx context.Context, session types.Session) error {
	if session.ID == "" {
		return errors.New("session id must not be empty")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.RefreshExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Find returns the session for the given id.
func (s *RedisSessionStore) Find(ctx context.Context, id string) (types.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return types.Session{}, fmt.Errorf("fetch session: %w", err)
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return types.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return session, nil
}

// Delete removes the session if present.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// Close releases the underlying Redis connection.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
