package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indicates the session id has no live record, either
// because it expired or because it was revoked at logout.
var ErrSessionNotFound = errors.New("session not found")

// SessionRecord is the server-side half of a session: the token alone is not
// enough, the record must still exist here for the session to be live.
type SessionRecord struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store manages session records in redis with a TTL matching token expiry.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(sessionID string) string {
	return fmt.Sprintf("auth:session:%s", sessionID)
}

// Save records a live session.
func (s *Store) Save(ctx context.Context, sessionID string, record SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

// Get returns the live session record, or ErrSessionNotFound.
func (s *Store) Get(ctx context.Context, sessionID string) (*SessionRecord, error) {
	result, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var record SessionRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete revokes a session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
