package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

// HashClient is the subset of redis.UniversalClient used by RedisStore.
type HashClient interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisStore implements Store as one Redis hash.
// Each property is a hash field holding the JSON encoding of its value, so
// Register touches only the fields it sets.
type RedisStore struct {
	db      HashClient
	hashKey string
	ttl     time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithHashKey sets the Redis key of the property hash.
func WithHashKey(key string) RedisOption {
	return func(s *RedisStore) {
		if key != "" {
			s.hashKey = key
		}
	}
}

// WithTTL expires the whole hash ttl after the latest write.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// NewRedisStore creates a Redis backed store. Any redis.UniversalClient works.
func NewRedisStore(db HashClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		db:      db,
		hashKey: "analyticskit:persistence",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRedisStoreFromConfig creates a store using the hash key and TTL of cfg.
func NewRedisStoreFromConfig(db HashClient, cfg RedisConfig) *RedisStore {
	return NewRedisStore(db, WithHashKey(cfg.HashKey), WithTTL(cfg.TTL))
}

func (s *RedisStore) Get(ctx context.Context, key string) (any, error) {
	raw, err := s.db.HGet(ctx, s.hashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStorageRead, err)
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, errors.Join(ErrStorageRead, err)
	}
	return v, nil
}

func (s *RedisStore) Register(ctx context.Context, props Properties) error {
	if len(props) == 0 {
		return nil
	}

	args := make([]any, 0, len(props)*2)
	for _, k := range slices.Sorted(maps.Keys(props)) {
		if k == "" {
			return ErrEmptyKey
		}
		data, err := json.Marshal(props[k])
		if err != nil {
			return errors.Join(ErrEncode, err)
		}
		args = append(args, k, string(data))
	}

	if err := s.db.HSet(ctx, s.hashKey, args...).Err(); err != nil {
		return errors.Join(ErrStorageWrite, err)
	}
	if s.ttl > 0 {
		if err := s.db.Expire(ctx, s.hashKey, s.ttl).Err(); err != nil {
			return errors.Join(ErrStorageWrite, err)
		}
	}
	return nil
}

func (s *RedisStore) Unregister(ctx context.Context, key string) error {
	if err := s.db.HDel(ctx, s.hashKey, key).Err(); err != nil {
		return errors.Join(ErrStorageWrite, err)
	}
	return nil
}
