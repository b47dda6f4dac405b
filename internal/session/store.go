package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Store keeps opaque session IDs in redis, each mapping to a user ID with a
// sliding absolute TTL. The cookie only ever carries the session ID.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

// Create issues a new session for the user and returns its ID.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := s.Client.Set(ctx, keyPrefix+sessionID, userID, s.TTL).Err(); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Get resolves a session ID to the user it belongs to.
func (s *Store) Get(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.Client.Get(ctx, keyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// Destroy removes the session. Destroying an unknown session is not an error.
func (s *Store) Destroy(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, keyPrefix+sessionID).Err()
}
