package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"movie-catalog/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether the client identified by key may make a request now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NewLimiter shares buckets through redis when a client is given and keeps
// them in process otherwise.
func NewLimiter(config utils.RateLimitConfig, rdb *redis.Client) Limiter {
	if rdb != nil {
		return NewRedisLimiter(rdb, config.RPS, config.Burst)
	}
	return NewLocalLimiter(config.RPS, config.Burst)
}

// RateLimit answers 429 once a client runs out of tokens. Limiter errors let
// the request through.
func RateLimit(limiter Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err), zap.String("client", key))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", "1")
				utils.ResponseTooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ==================== IN PROCESS ====================

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one token bucket per client and forgets clients idle
// for more than three minutes.
type LocalLimiter struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	return &LocalLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		clients:   make(map[string]*client),
		lastSweep: time.Now(),
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > 3*time.Minute {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1), nil
}

// ==================== REDIS ====================

var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local rate_per_ms = tonumber(ARGV[2])
	local capacity = tonumber(ARGV[3])
	local ttl_ms = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_ms')
	local tokens = tonumber(state[1])
	local last = tonumber(state[2])

	if tokens == nil or last == nil then
		tokens = capacity
		last = now_ms
	end

	local elapsed = math.max(0, now_ms - last)
	tokens = math.min(capacity, tokens + elapsed * rate_per_ms)

	local allowed = 0
	if tokens >= 1 then
		allowed = 1
		tokens = tokens - 1
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'last_ms', now_ms)
	redis.call('PEXPIRE', key, ttl_ms)

	return allowed
`)

// RedisLimiter runs the token bucket inside redis so every instance shares it.
type RedisLimiter struct {
	rdb    *redis.Client
	rps    float64
	burst  int
	prefix string
}

func NewRedisLimiter(rdb *redis.Client, rps float64, burst int) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		rps:    rps,
		burst:  burst,
		prefix: "ratelimit:ip:",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	// Keep the bucket until it would have refilled completely.
	ttl := time.Duration(float64(l.burst)/l.rps*float64(time.Second)) + time.Second

	args := []any{
		time.Now().UnixMilli(),
		strconv.FormatFloat(l.rps/1000, 'f', -1, 64),
		l.burst,
		ttl.Milliseconds(),
	}

	allowed, err := tokenBucket.Run(ctx, l.rdb, []string{l.prefix + key}, args...).Int64()
	if err != nil {
		return false, fmt.Errorf("run token bucket: %w", err)
	}

	return allowed == 1, nil
}
