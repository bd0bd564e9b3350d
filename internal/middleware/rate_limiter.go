package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── Window limiters ───────────────────────────────────────────────────────────

// windowLimiter counts hits per key in fixed windows.
type windowLimiter interface {
	// allow records one hit and reports whether it is within the limit,
	// plus when the current window ends.
	allow(ctx context.Context, key string) (bool, time.Time)
}

type windowEntry struct {
	count     int
	windowEnd time.Time
}

// memoryLimiter keeps counters in process. Expired entries are purged at
// most once per purgeInterval, on the request path.
type memoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]*windowEntry
	limit     int
	window    time.Duration
	lastPurge time.Time
	now       func() time.Time
}

const purgeInterval = 5 * time.Minute

func newMemoryLimiter(limit int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (l *memoryLimiter) allow(_ context.Context, key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) > purgeInterval {
		l.purgeLocked(now)
	}

	entry, ok := l.entries[key]
	if !ok || now.After(entry.windowEnd) {
		entry = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = entry
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

func (l *memoryLimiter) purgeLocked(now time.Time) {
	purged := 0
	for k, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, k)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter entries purged")
	}
}

// redisLimiter shares counters between instances through INCR + EXPIRE NX.
// When Redis is unreachable requests are let through.
type redisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func (l *redisLimiter) allow(ctx context.Context, key string) (bool, time.Time) {
	k := l.prefix + key
	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window) // the first hit of a window sets its end
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("rate limiter: redis unavailable, allowing request")
		return true, time.Now().Add(l.window)
	}
	return incr.Val() <= int64(l.limit), time.Now().Add(ttl.Val())
}

func newLimiter(rdb *redis.Client, name string, limit int, window time.Duration) windowLimiter {
	if rdb == nil {
		return newMemoryLimiter(limit, window)
	}
	return &redisLimiter{rdb: rdb, prefix: "ratelimit:" + name + ":", limit: limit, window: window}
}

func limitBy(l windowLimiter, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.Request.Context(), c.ClientIP())
		if !ok {
			retry := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// ── Login rate limiter ────────────────────────────────────────────────────────

// LoginRateLimiter limits login attempts to 20 per minute per IP.
// With a nil client the counters live in process.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return limitBy(newLimiter(rdb, "login", 20, time.Minute),
		"Muitas tentativas de login. Tente novamente em 1 minuto.")
}

// ── General API rate limiter ──────────────────────────────────────────────────

// RateLimiter returns a per-IP limiter of limit requests per window.
// name separates the Redis counters of different limiters.
func RateLimiter(rdb *redis.Client, name string, limit int, window time.Duration) gin.HandlerFunc {
	return limitBy(newLimiter(rdb, name, limit, window),
		"Muitas requisições. Tente novamente em instantes.")
}
