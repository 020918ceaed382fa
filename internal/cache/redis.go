package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
)

// redisClient is the part of *redis.Client the store uses
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps fields in redis as JSON under prefix+key
type RedisStore struct {
	client redisClient
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore wraps a connected client. ttl 0 keeps entries forever.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	return newRedisStore(client, prefix, ttl, logger)
}

func newRedisStore(client redisClient, prefix string, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With().Str("component", "RedisStore").Logger(),
	}
}

// Connect creates a client for addr and checks it answers within 5 seconds
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (*solver.Field, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Field lookup failed")
		return nil, false, err
	}

	field := &solver.Field{}
	if err := json.Unmarshal(data, field); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable field")
		return nil, false, nil
	}
	return field, true, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, field *solver.Field) error {
	data, err := json.Marshal(field)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("Field store failed")
		return err
	}
	return nil
}
