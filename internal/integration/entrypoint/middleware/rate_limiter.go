// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/crm-suite/backend/internal/domain/error"
	"github.com/crm-suite/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxRequests is the default number of allowed requests per window.
	defaultMaxRequests = 60
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute

	rateLimitKeyPrefix = "ratelimit:"
)

// rateLimitEntry tracks rate limit data for a single key.
type rateLimitEntry struct {
	attempts  int
	resetTime time.Time
}

// RateLimiter limits requests per caller with a fixed window. Counters live in
// Redis when a client is configured, so every API instance shares them;
// otherwise they are kept in process memory.
type RateLimiter struct {
	mu             sync.Mutex
	entries        map[string]*rateLimitEntry
	redis          *redis.Client
	maxRequests    int
	windowDuration time.Duration
	now            func() time.Time
}

// NewRateLimiter creates a new rate limiter. A nil client selects the in-memory store.
func NewRateLimiter(client *redis.Client, maxRequests int, windowDuration time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = defaultMaxRequests
	}
	if windowDuration <= 0 {
		windowDuration = defaultWindowDuration
	}
	return &RateLimiter{
		entries:        make(map[string]*rateLimitEntry),
		redis:          client,
		maxRequests:    maxRequests,
		windowDuration: windowDuration,
		now:            time.Now,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// Authenticated callers are keyed by user, anonymous ones by IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.Request.Context(), rateLimitKey(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			return
		}

		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	if userID, ok := GetUserIDFromContext(c); ok {
		return rateLimitKeyPrefix + "user:" + userID.String()
	}
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}
	return rateLimitKeyPrefix + "ip:" + clientIP
}

func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	if rl.redis == nil {
		return rl.allowLocal(key)
	}

	allowed, err := rl.allowRedis(ctx, key)
	if err != nil {
		// Fail open.
		slog.Warn("Rate limiter store unavailable, allowing request", "error", err)
		return true
	}
	return allowed
}

// allowRedis counts the request in a fixed window that starts with the first hit.
func (rl *RateLimiter) allowRedis(ctx context.Context, key string) (bool, error) {
	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.windowDuration).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= int64(rl.maxRequests), nil
}

// allowLocal checks if a request from the given key should be allowed.
func (rl *RateLimiter) allowLocal(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	entry, exists := rl.entries[key]
	if !exists || now.After(entry.resetTime) {
		rl.entries[key] = &rateLimitEntry{
			attempts:  1,
			resetTime: now.Add(rl.windowDuration),
		}
		return true
	}

	if entry.attempts < rl.maxRequests {
		entry.attempts++
		return true
	}

	return false
}

// Cleanup removes expired in-memory entries.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, entry := range rl.entries {
		if now.After(entry.resetTime) {
			delete(rl.entries, key)
		}
	}
}
