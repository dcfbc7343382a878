package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"banglaixanh/backend/app/dto"

	"github.com/redis/go-redis/v9"
)

// UnitCache stores unit lists by key. A miss is (nil, false, nil).
type UnitCache interface {
	Get(ctx context.Context, key string) ([]dto.UnitResponse, bool, error)
	Set(ctx context.Context, key string, units []dto.UnitResponse) error
}

type RedisUnitCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisUnitCache(rdb *redis.Client, ttl time.Duration) *RedisUnitCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisUnitCache{rdb: rdb, ttl: ttl, prefix: "units:"}
}

func (c *RedisUnitCache) Get(ctx context.Context, key string) ([]dto.UnitResponse, bool, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []dto.UnitResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *RedisUnitCache) Set(ctx context.Context, key string, units []dto.UnitResponse) error {
	raw, err := json.Marshal(units)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, raw, c.ttl).Err()
}

// Invalidate drops every cached list, used after a reseed.
func (c *RedisUnitCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
