package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is the fixed-window limiter backed by redis INCR+EXPIRE,
// for deployments running more than one API replica.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
	}
}

func (rl *RedisRateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			key = clientIP(c)
		}

		key = "ratelimit:" + key

		ctx := c.Request.Context()

		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			// fail open: a redis outage should not take auth down with it
			c.Next()
			return
		}

		if count == 1 {
			_ = rl.rdb.Expire(ctx, key, rl.window).Err()
		}

		if count > int64(rl.limit) {
			retryAfter := int(rl.window.Seconds())

			if ttl, err := rl.rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retryAfter = int(ttl.Seconds())
			}

			respondRateLimited(c, retryAfter)
			return
		}

		c.Next()
	}
}
