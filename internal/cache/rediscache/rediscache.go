// Package rediscache — кэш снапшотов отчёта и лимитер отправок.
package rediscache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ReportKey — под этим ключом лежит последний собранный текст отчёта.
const ReportKey = "cargobot:report"

type Cache struct {
	c *redis.Client
}

func New(addr string) *Cache {
	return &Cache{
		c: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (r *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}
	return val, true, nil
}

func (r *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.c.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}
