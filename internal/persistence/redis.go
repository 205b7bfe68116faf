package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/offer-service/internal/config"
)

const deliveryKeyPrefix = "webhook:delivery:"

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration. It returns nil when no
// address is configured; all methods tolerate a nil receiver.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not provided; webhook delivery dedupe disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// MarkDelivery records a webhook delivery id. It reports true the first time an id is
// seen within ttl and false for redeliveries.
func (r *Redis) MarkDelivery(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	if r == nil || r.Client == nil {
		return true, nil
	}
	return r.Client.SetNX(ctx, deliveryKeyPrefix+deliveryID, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}
