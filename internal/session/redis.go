package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "jamhost:session:"

// RedisConfig holds Redis connection settings for the session backend.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string
	// Password is optional.
	Password string
	// DB is the Redis database number.
	DB int
	// TTL is the session expiry (0 = never expire).
	TTL time.Duration
	// Prefix overrides the default key prefix.
	Prefix string
}

// RedisStore persists sessions in Redis, suitable for running several host
// processes behind one conversation surface.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	mu     sync.Mutex
	closed bool
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newRedisStore(client, cfg), nil
}

// NewRedisStoreFromClient wraps an existing client. Used by tests with
// miniredis.
func NewRedisStoreFromClient(client *redis.Client, cfg RedisConfig) *RedisStore {
	return newRedisStore(client, cfg)
}

func newRedisStore(client *redis.Client, cfg RedisConfig) *RedisStore {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: cfg.TTL}
}

func (r *RedisStore) key(id string) string { return r.prefix + id }

// Resolve returns the session for id, creating it lazily. Creation uses
// SetNX so two hosts racing on the same new session agree on one identifier
// pair.
func (r *RedisStore) Resolve(ctx context.Context, id string) (*Session, error) {
	if r.isClosed() {
		return nil, ErrStoreClosed
	}

	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == nil {
		var s Session
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", id, err)
		}
		return &s, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	s := newSession(id)
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", id, err)
	}

	created, err := r.client.SetNX(ctx, r.key(id), payload, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", id, err)
	}
	if !created {
		// Lost the race; read whoever won.
		return r.Resolve(ctx, id)
	}
	return s, nil
}

// Save persists updated session state.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if r.isClosed() {
		return ErrStoreClosed
	}

	s.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// Close releases the Redis client.
func (r *RedisStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.client.Close()
}

func (r *RedisStore) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
