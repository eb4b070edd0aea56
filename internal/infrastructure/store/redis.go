package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultTimeout = 5 * time.Second

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisTokenStore keeps the bearer credential under a single fixed key.
// Used for kiosk-style deployments where several processes on one host share
// the visitor session.
type RedisTokenStore struct {
	client *redis.Client
	key    string
	log    zerolog.Logger
}

// NewRedisTokenStore creates a store wrapping the given Redis client.
func NewRedisTokenStore(client *redis.Client, key string, log zerolog.Logger) *RedisTokenStore {
	return &RedisTokenStore{client: client, key: key, log: log}
}

// Set persists token under the fixed key, with no expiry: the credential
// lives until an explicit Clear. Blank tokens are logged and dropped.
func (s *RedisTokenStore) Set(ctx context.Context, token string) {
	if strings.TrimSpace(token) == "" {
		s.log.Error().Msg("token store: refusing to persist blank credential")
		return
	}
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("token store: write failed")
	}
}

// Get returns the stored credential, reporting absence on a missing key or
// an unreachable backend.
func (s *RedisTokenStore) Get(ctx context.Context) (string, bool) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", s.key).Msg("token store: read failed")
		}
		return "", false
	}
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// Clear deletes the credential key. Idempotent.
func (s *RedisTokenStore) Clear(ctx context.Context) {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("token store: clear failed")
	}
}

// Ping reports backend reachability for readiness probes.
func (s *RedisTokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
