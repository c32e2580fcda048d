package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache adalah komponen TTL cache yang di-inject lewat constructor,
// bukan singleton level modul, supaya test bisa substitusi fake.
//
//go:generate mockgen -source=cache.go -destination=mock/cache_mock.go -package=mock
type Cache interface {
	GetOrFill(ctx context.Context, key string, ttl time.Duration, fill func(ctx context.Context) ([]byte, error)) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string) error
}

type redisCache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

// GetOrFill membaca key dari redis; saat miss, fill dijalankan sekali saja
// per key (singleflight) lalu hasilnya disimpan dengan TTL terbatas.
// Kegagalan redis tidak menggagalkan request: fill tetap jadi sumber data.
func (c *redisCache) GetOrFill(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fill func(ctx context.Context) ([]byte, error),
) ([]byte, error) {
	if c.rdb != nil {
		if val, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
			return val, nil
		}
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		payload, err := fill(ctx)
		if err != nil {
			return nil, err
		}

		if c.rdb != nil {
			_ = c.rdb.Set(ctx, key, payload, ttl).Err()
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]byte), nil
}

func (c *redisCache) Invalidate(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
