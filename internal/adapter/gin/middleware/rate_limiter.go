package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"places-service/pkg/logger"
)

// maxLocalBuckets bounds the in-process limiter map.
const maxLocalBuckets = 10000

// tokenBucket consumes one token from the bucket at KEYS[1].
// State is {last_refill, tokens}; the key expires after a minute idle.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
	local last_refill = tonumber(bucket[1]) or now
	local tokens = tonumber(bucket[2]) or capacity

	local elapsed = math.max(0, now - last_refill)
	tokens = math.min(capacity, tokens + elapsed * rate)

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
	redis.call('EXPIRE', key, 60)
	return allowed
`)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// RateLimiter limits requests per client IP with a token bucket. Buckets live in
// Redis when a client is configured so all instances share them; without Redis,
// or while Redis is failing, an in-process limiter takes over.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewRateLimiter creates a new rate limiter. client may be nil.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
		local:  make(map[string]*rate.Limiter),
	}
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || !rl.config.Enabled {
			c.Next()
			return
		}

		key := "ratelimit:tb:" + c.ClientIP()
		if !rl.allow(c, key) {
			logger.WithContext(c.Request.Context(), rl.log).Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests, please try again later.",
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(c *gin.Context, key string) bool {
	if rl.client == nil {
		return rl.allowLocal(key)
	}

	ctx := c.Request.Context()
	now, err := rl.client.Time(ctx).Result()
	if err == nil {
		var allowed int64
		allowed, err = tokenBucket.Run(ctx, rl.client, []string{key},
			rl.config.RequestsPerSecond,
			rl.config.Burst,
			float64(now.UnixMicro())/1e6,
		).Int64()
		if err == nil {
			return allowed == 1
		}
	}

	rl.log.Warn("rate limiter redis error, using local limiter", zap.String("key", key), zap.Error(err))
	return rl.allowLocal(key)
}

func (rl *RateLimiter) allowLocal(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.local[key]
	if !ok {
		if len(rl.local) >= maxLocalBuckets {
			rl.local = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)
		rl.local[key] = limiter
	}
	return limiter.Allow()
}
