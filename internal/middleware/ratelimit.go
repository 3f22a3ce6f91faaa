package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/helpapp/marketplace/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// tokenBucketScript refills by whole intervals and takes one token per call.
// Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimit limits requests per client IP and route. With Redis the bucket
// is shared across instances; without it each process keeps its own
// limiters. A Redis error lets the request through.
func RateLimit(cfg config.RateLimitConfig, rdb redis.Scripter, logger *zap.Logger) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	if rdb == nil {
		return localRateLimit(cfg, logger)
	}

	ttlSeconds := int64(math.Ceil((time.Duration(cfg.Capacity) * cfg.RefillInterval * 2).Seconds()))
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:ip:%s:route:%s %s", cfg.Prefix, c.ClientIP(), c.Request.Method, c.FullPath())
		args := []any{time.Now().UnixMilli(), cfg.Capacity, cfg.RefillInterval.Milliseconds(), ttlSeconds}

		vals, err := tokenBucketScript.Run(c.Request.Context(), rdb, []string{key}, args...).Int64Slice()
		if err != nil || len(vals) != 3 {
			logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))
		if vals[0] != 1 {
			rejectRateLimited(c, logger, time.Duration(vals[2])*time.Millisecond)
			return
		}
		c.Next()
	}
}

type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = l
	}
	return l
}

func localRateLimit(cfg config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	store := &limiterStore{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(cfg.RefillInterval),
		burst:    cfg.Capacity,
	}
	return func(c *gin.Context) {
		key := c.ClientIP() + " " + c.Request.Method + " " + c.FullPath()
		r := store.get(key).Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			rejectRateLimited(c, logger, delay)
			return
		}
		c.Next()
	}
}

func rejectRateLimited(c *gin.Context, logger *zap.Logger, retryAfter time.Duration) {
	secs := int(math.Ceil(retryAfter.Seconds()))
	logger.Warn("Rate limit exceeded", zap.String("ip", c.ClientIP()), zap.String("path", c.FullPath()))
	c.Header("Retry-After", strconv.Itoa(secs))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "rate limit exceeded",
		"retry_after": secs,
	})
}
