package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter decides whether one more request under key fits the current window
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// RateLimiter is a fixed-window limiter kept in process memory
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates an in-memory limiter. Call Close to stop its janitor.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(period * 2)
	return rl
}

func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, w := range rl.clients {
				if now.After(w.resetAt) {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(rl.window)}
		rl.clients[key] = w
	}
	if w.count >= rl.limit {
		return false, 0, nil
	}
	w.count++
	return true, rl.limit - w.count, nil
}

func (rl *RateLimiter) Limit() int { return rl.limit }

func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

// fixedWindowScript increments the window counter and starts its TTL on first hit
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RedisRateLimiter shares a fixed window across instances
type RedisRateLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(client redis.UniversalClient, limit int, period time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: period, prefix: "ratelimit:"}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	count, err := fixedWindowScript.Run(ctx, rl.client, []string{rl.prefix + key}, rl.window.Milliseconds()).Int()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script: %w", err)
	}
	if count > rl.limit {
		return false, 0, nil
	}
	return true, rl.limit - count, nil
}

func (rl *RedisRateLimiter) Limit() int { return rl.limit }

var (
	_ Limiter = (*RateLimiter)(nil)
	_ Limiter = (*RedisRateLimiter)(nil)
)

// RateLimit limits requests per client IP, scoped by tenant once it is known.
// Limiter errors let the request through.
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return RateLimitByKey(limiter, log, func(c *gin.Context) string {
		key := c.ClientIP()
		if tenantID := c.GetString(TenantIDKey); tenantID != "" {
			key = tenantID + ":" + key
		}
		return key
	})
}

func RateLimitByKey(limiter Limiter, log *zap.Logger, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, err := limiter.Allow(c.Request.Context(), keyFunc(c))
		if err != nil {
			if log != nil {
				log.Warn("Rate limiter unavailable", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				c.GetString(RequestIDKey),
			))
			return
		}
		c.Next()
	}
}
