// rate_limit.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	smemory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const storePrefix = "ratelimit"

type RateLimitOptions struct {
	Prefix  string
	Limit   int
	Window  time.Duration
	Message string
	// SkipSuccessful solo cuenta los requests que terminan con status >= 400.
	SkipSuccessful bool
}

// NewMemoryStore es el respaldo cuando no hay Redis; vale solo para una instancia.
func NewMemoryStore() limiter.Store {
	return smemory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          storePrefix,
		CleanUpInterval: time.Minute,
	})
}

// NewRedisStore comparte los contadores entre instancias.
func NewRedisStore(client *redis.Client) (limiter.Store, error) {
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   storePrefix,
		MaxRetry: 3,
	})
}

// RateLimit limita por IP con ventana fija. Si el store falla se deja pasar el request.
func RateLimit(store limiter.Store, opts RateLimitOptions, log *zap.Logger) gin.HandlerFunc {
	rate := limiter.Rate{Period: opts.Window, Limit: int64(opts.Limit)}

	return func(c *gin.Context) {
		key := opts.Prefix + ":" + c.ClientIP()
		ctx := c.Request.Context()

		var (
			lctx    limiter.Context
			err     error
			blocked bool
		)
		if opts.SkipSuccessful {
			// Peek no consume cupo; el intento se cuenta después si falla.
			lctx, err = store.Peek(ctx, key, rate)
			blocked = lctx.Remaining <= 0
		} else {
			lctx, err = store.Get(ctx, key, rate)
			blocked = lctx.Reached
		}
		if err != nil {
			log.Warn("rate limit no disponible", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		reset := strconv.FormatInt(secondsUntil(lctx.Reset), 10)
		c.Header("RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("RateLimit-Reset", reset)

		if blocked {
			c.Header("Retry-After", reset)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": opts.Message})
			return
		}

		c.Next()

		if opts.SkipSuccessful && c.Writer.Status() >= http.StatusBadRequest {
			if _, err := store.Increment(context.WithoutCancel(ctx), key, 1, rate); err != nil {
				log.Warn("rate limit increment", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

func secondsUntil(unix int64) int64 {
	s := unix - time.Now().Unix()
	if s < 0 {
		return 0
	}
	return s
}
