package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const recordKeyPrefix = "quota:record:"

// Store persists one Record per identity key.
type Store interface {
	Get(ctx context.Context, identity string) (*Record, error)
	Put(ctx context.Context, identity string, rec *Record) error
	Delete(ctx context.Context, identity string) error
}

// RedisStore keeps each Record as a JSON document under quota:record:<identity>.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed quota store. Keys expire after ttl
// so abandoned guest identities don't accumulate forever; the TTL must be
// comfortably longer than the 7-day quota window.
func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Get returns the stored record, or nil when no record exists.
func (s *RedisStore) Get(ctx context.Context, identity string) (*Record, error) {
	data, err := s.rdb.Get(ctx, recordKeyPrefix+identity).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("reading quota record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding quota record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Put(ctx context.Context, identity string, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding quota record: %w", err)
	}
	if err := s.rdb.Set(ctx, recordKeyPrefix+identity, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("writing quota record: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, identity string) error {
	if err := s.rdb.Del(ctx, recordKeyPrefix+identity).Err(); err != nil {
		return fmt.Errorf("deleting quota record: %w", err)
	}
	return nil
}
