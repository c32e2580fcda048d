package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-payday/internal/shared/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCache_GetOrFill(t *testing.T) {
	ctx := context.Background()

	t.Run("hit skips fill", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("k1").SetVal(`cached`)

		c := cache.NewRedisCache(rdb)
		got, err := c.GetOrFill(ctx, "k1", time.Minute, func(ctx context.Context) ([]byte, error) {
			t.Fatal("fill must not run on a cache hit")
			return nil, nil
		})

		assert.NoError(t, err)
		assert.Equal(t, []byte("cached"), got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss fills and stores", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("k2").RedisNil()
		mock.ExpectSet("k2", []byte("fresh"), time.Minute).SetVal("OK")

		c := cache.NewRedisCache(rdb)
		got, err := c.GetOrFill(ctx, "k2", time.Minute, func(ctx context.Context) ([]byte, error) {
			return []byte("fresh"), nil
		})

		assert.NoError(t, err)
		assert.Equal(t, []byte("fresh"), got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis set failure still returns fill result", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("k3").RedisNil()
		mock.ExpectSet("k3", []byte("fresh"), time.Minute).SetErr(errors.New("redis down"))

		c := cache.NewRedisCache(rdb)
		got, err := c.GetOrFill(ctx, "k3", time.Minute, func(ctx context.Context) ([]byte, error) {
			return []byte("fresh"), nil
		})

		assert.NoError(t, err)
		assert.Equal(t, []byte("fresh"), got)
	})

	t.Run("fill error propagates", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("k4").RedisNil()

		c := cache.NewRedisCache(rdb)
		_, err := c.GetOrFill(ctx, "k4", time.Minute, func(ctx context.Context) ([]byte, error) {
			return nil, errors.New("source unavailable")
		})

		assert.Error(t, err)
	})
}

func TestRedisCache_Invalidate(t *testing.T) {
	ctx := context.Background()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel("k1", "k2").SetVal(2)

	c := cache.NewRedisCache(rdb)

	assert.NoError(t, c.Invalidate(ctx, "k1", "k2"))
	assert.NoError(t, c.Invalidate(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
