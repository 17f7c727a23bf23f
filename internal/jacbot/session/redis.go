package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jac-chandigarh/jacbot/internal/model"
	"github.com/jac-chandigarh/jacbot/pkg/utils/json"
)

const defaultKeyPrefix = "jacbot:session:"

// RedisStore keeps chat histories in Redis so sessions survive restarts
// and can be shared across replicas. Each session is a single key whose
// value is the JSON-encoded message history. A non-zero TTL expires idle
// sessions; every write refreshes it.
type RedisStore struct {
	redis     *goredis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a Redis-backed session store. A zero ttl keeps
// sessions forever.
func NewRedisStore(redis *goredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis:     redis,
		keyPrefix: defaultKeyPrefix,
		ttl:       ttl,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Create registers a new session with an empty history.
func (s *RedisStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := s.redis.Set(ctx, s.key(id), "[]", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// Exists reports whether the session ID is known.
func (s *RedisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

// History returns the messages of a session.
func (s *RedisStore) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session history: %w", err)
	}

	var history []model.ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to decode session history: %w", err)
	}
	return history, nil
}

// Append adds messages to the session history.
func (s *RedisStore) Append(ctx context.Context, sessionID string, messages ...model.ChatMessage) error {
	history, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}

	history = append(history, messages...)
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode session history: %w", err)
	}

	if err := s.redis.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session history: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
