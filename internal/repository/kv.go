package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/set-night/healthconnect/internal/repository/sqlc"
)

// PostgresKV stores string values in the kv_store table.
type PostgresKV struct {
	queries *sqlc.Queries
}

func NewPostgresKV(queries *sqlc.Queries) *PostgresKV {
	return &PostgresKV{queries: queries}
}

func (s *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.queries.KVGet(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key. A zero ttl keeps the value forever.
func (s *PostgresKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var expires pgtype.Timestamptz
	if ttl > 0 {
		expires = pgtype.Timestamptz{Time: time.Now().Add(ttl), Valid: true}
	}
	if err := s.queries.KVSet(ctx, sqlc.KVSetParams{Key: key, Value: value, ExpiresAt: expires}); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresKV) Delete(ctx context.Context, key string) error {
	if err := s.queries.KVDelete(ctx, key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

// DeleteExpired removes rows past their expiry and returns how many went.
func (s *PostgresKV) DeleteExpired(ctx context.Context) (int64, error) {
	n, err := s.queries.KVDeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("kv delete expired: %w", err)
	}
	return n, nil
}

const redisKeyPrefix = "healthconnect:"

// RedisKV stores values as plain redis strings under a common prefix.
type RedisKV struct {
	rdb *redis.Client
}

// NewRedisKV connects to redisURL and pings it.
func NewRedisKV(ctx context.Context, redisURL string) (*RedisKV, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisKV{rdb: rdb}, nil
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// DeleteExpired is a no-op; redis expires keys itself.
func (s *RedisKV) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

func (s *RedisKV) Close() error {
	return s.rdb.Close()
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryKV keeps values in process memory. Values are lost on restart.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || s.expired(e) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryKV) DeleteExpired(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryKV) expired(e memoryEntry) bool {
	return !e.expires.IsZero() && !s.now().Before(e.expires)
}
