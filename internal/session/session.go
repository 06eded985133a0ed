package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const guestKeyPrefix = "session:guest:"

// Service issues and validates guest session tokens. A guest is identified
// only by this locally issued token; it carries no account information.
type Service struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewService(rdb redis.Cmdable, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{rdb: rdb, ttl: ttl}
}

// Create issues a fresh guest session token.
func (s *Service) Create(ctx context.Context) (string, error) {
	id := uuid.New().String()
	if err := s.rdb.Set(ctx, guestKeyPrefix+id, 1, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("storing guest session: %w", err)
	}
	return id, nil
}

// Validate reports whether the token names a known guest session. Redis
// errors fail open: an unreachable store must not lock guests out.
func (s *Service) Validate(ctx context.Context, id string) bool {
	if _, err := uuid.Parse(id); err != nil {
		return false
	}
	exists, err := s.rdb.Exists(ctx, guestKeyPrefix+id).Result()
	if err != nil {
		slog.Warn("session: validate failed, allowing", "error", err)
		return true
	}
	return exists > 0
}

// Revoke deletes the guest session token.
func (s *Service) Revoke(ctx context.Context, id string) {
	if err := s.rdb.Del(ctx, guestKeyPrefix+id).Err(); err != nil {
		slog.Warn("session: revoke failed", "error", err)
	}
}
