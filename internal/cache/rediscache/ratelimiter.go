package rediscache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Минутное окно исходящих сообщений: Telegram не любит очереди
// плотнее ~30 сообщений в секунду, нам хватает куда меньшего.
const sendWindowKey = "cargobot:send_window"

type RateLimiter struct {
	c *redis.Client
}

func NewRateLimiter(addr string) *RateLimiter {
	return &RateLimiter{
		c: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Allow делает INCR по ключу и продлевает TTL окна.
// Возвращает (allowed, currentCount).
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	pipe := rl.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, errors.Wrap(err, "redis ratelimit")
	}
	n := incr.Val()
	return n <= limit, n, nil
}

// AllowSend учитывает одну исходящую отправку в минутном окне.
func (rl *RateLimiter) AllowSend(ctx context.Context, limit int64) (bool, int64, error) {
	return rl.Allow(ctx, sendWindowKey, limit, time.Minute)
}
