package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/lk2023060901/myai/internal/pkg/errors"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/redis"
	"github.com/lk2023060901/myai/internal/pkg/response"
	"github.com/lk2023060901/myai/internal/pkg/validator"
	"go.uber.org/zap"
)

// RateLimiterConfig configures one sliding window limiter.
type RateLimiterConfig struct {
	// Name separates the windows of different endpoints.
	Name string
	// MaxRequests allowed per window.
	MaxRequests int
	// Window length.
	Window time.Duration
	// Strategy picks the key: user, endpoint or ip (default).
	Strategy string
}

// slidingWindowScript trims the window, counts it and records the request
// under a unique member when it fits.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local current = redis.call('ZCARD', key)

if current < limit then
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window)
	return {1, limit - current - 1, now + window}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')[2]
return {0, 0, tonumber(oldest) + window}
`

// RateLimiter is a redis backed sliding window limiter. With a nil client
// it lets every request through.
func RateLimiter(redisClient *redis.Client, cfg RateLimiterConfig, log *logger.Logger) gin.HandlerFunc {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "ip"
	}
	if log == nil {
		log = logger.Nop()
	}

	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := buildRateLimitKey(c, cfg)
		allowed, remaining, resetAt, err := checkRateLimit(c.Request.Context(), redisClient, key, cfg)
		if err != nil {
			// Fail open when redis is unavailable.
			log.Error("rate limiter error", zap.Error(err), zap.String("key", key))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retry := time.Until(resetAt).Round(time.Second)
			if retry < time.Second {
				retry = time.Second
			}
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())))
			response.ErrorWithCode(c, apperrors.ErrTooManyRequests,
				fmt.Sprintf("try again in %d seconds", int(retry.Seconds())))
			return
		}
		c.Next()
	}
}

func buildRateLimitKey(c *gin.Context, cfg RateLimiterConfig) string {
	prefix := "rate_limit:" + cfg.Name
	ip := validator.ClientKey(c.ClientIP())
	switch cfg.Strategy {
	case "user":
		if id, ok := GetUserID(c); ok {
			return fmt.Sprintf("%s:user:%d", prefix, id)
		}
		return fmt.Sprintf("%s:ip:%s", prefix, ip)
	case "endpoint":
		return fmt.Sprintf("%s:endpoint:%s:%s", prefix, c.FullPath(), ip)
	default:
		return fmt.Sprintf("%s:ip:%s", prefix, ip)
	}
}

func checkRateLimit(ctx context.Context, redisClient *redis.Client, key string, cfg RateLimiterConfig) (bool, int, time.Time, error) {
	now := time.Now().UnixMilli()
	result, err := redisClient.Eval(ctx, slidingWindowScript, []string{key},
		now, cfg.Window.Milliseconds(), cfg.MaxRequests, uuid.NewString())
	if err != nil {
		return false, 0, time.Time{}, err
	}

	values, ok := result.([]any)
	if !ok || len(values) != 3 {
		return false, 0, time.Time{}, fmt.Errorf("invalid rate limit result: %v", result)
	}
	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	reset, _ := values[2].(int64)
	return allowed == 1, int(remaining), time.UnixMilli(reset), nil
}

// LoginRateLimiter allows 5 login attempts per 5 minutes per IP.
func LoginRateLimiter(redisClient *redis.Client, log *logger.Logger) gin.HandlerFunc {
	return RateLimiter(redisClient, RateLimiterConfig{
		Name:        "login",
		MaxRequests: 5,
		Window:      5 * time.Minute,
	}, log)
}

// RegisterRateLimiter allows 3 registrations per hour per IP.
func RegisterRateLimiter(redisClient *redis.Client, log *logger.Logger) gin.HandlerFunc {
	return RateLimiter(redisClient, RateLimiterConfig{
		Name:        "register",
		MaxRequests: 3,
		Window:      time.Hour,
	}, log)
}
