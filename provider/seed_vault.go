package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	coreredis "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/db/redis"
)

// RedisVault stores pending randomness commitments in Redis. Take uses
// GETDEL so a commitment can only ever be consumed once, even across
// replicas.
type RedisVault struct {
	redis  *coreredis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisVault creates a Redis-backed seed vault. Seeds expire after
// ttl so abandoned commitments do not accumulate.
func NewRedisVault(redisClient *coreredis.Client, ttl time.Duration, logger zerolog.Logger) *RedisVault {
	return &RedisVault{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger.With().Str("component", "seed_vault").Logger(),
	}
}

func (v *RedisVault) Put(ctx context.Context, key, serverSeed string) error {
	return v.redis.Set(ctx, key, serverSeed, v.ttl)
}

func (v *RedisVault) Take(ctx context.Context, key string) (string, bool, error) {
	seed, found, err := v.redis.GetDel(ctx, key)
	if err != nil {
		return "", false, err
	}
	if !found {
		v.logger.Debug().Str("key", key).Msg("No pending commitment")
	}
	return seed, found, nil
}
