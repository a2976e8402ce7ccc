package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/workforce-portal/internal/config"
)

// takeToken refills the bucket by whole intervals, then spends one token.
// Returns {allowed (0/1), tokens left, ms until the next refill}.
var takeToken = redis.NewScript(`
local cap, refill, every, now = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4])
local state = redis.call('HMGET', KEYS[1], 'tokens', 'at')
local tokens, at = tonumber(state[1]), tonumber(state[2])
if tokens == nil or at == nil then
	tokens, at = cap, now
end
local steps = math.floor(math.max(0, now - at) / every)
if steps > 0 then
	tokens = math.min(cap, tokens + steps * refill)
	at = at + steps * every
end
local allowed, wait = 0, 0
if tokens > 0 then
	allowed, tokens = 1, tokens - 1
else
	wait = math.max(0, every - (now - at))
end
redis.call('HSET', KEYS[1], 'tokens', tokens, 'at', at)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {allowed, tokens, wait}
`)

type bucket struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

type takeResult struct {
	allowed    bool
	remaining  int64
	retryAfter time.Duration
}

func (b bucket) take(ctx context.Context, key string, now time.Time) (takeResult, error) {
	raw, err := takeToken.Run(ctx, b.rdb, []string{key},
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		now.UnixMilli(),
		int64(b.cfg.TTL/time.Second),
	).Slice()
	if err != nil {
		return takeResult{}, err
	}
	if len(raw) != 3 {
		return takeResult{}, fmt.Errorf("ratelimit: unexpected script reply %v", raw)
	}
	return takeResult{
		allowed:    asInt64(raw[0]) == 1,
		remaining:  asInt64(raw[1]),
		retryAfter: time.Duration(asInt64(raw[2])) * time.Millisecond,
	}, nil
}

// NewTokenBucket limits requests with a token bucket kept in Redis, so
// every server instance spends from the same budget.  When Redis fails the
// request goes through; a missing client disables the limiter.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	b := bucket{cfg: cfg, rdb: rdb}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			res, err := b.take(c.Request().Context(), key, time.Now())
			if err != nil {
				rateLimitErrors.Inc()
				if cfg.Debug {
					c.Logger().Warnf("ratelimit %s: %v", key, err)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))
			if res.allowed {
				return next(c)
			}

			rateLimited.WithLabelValues(cfg.Prefix).Inc()
			secs := int((res.retryAfter + time.Second - 1) / time.Second)
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				c.Logger().Infof("ratelimit %s: blocked, retry in %s", key, res.retryAfter)
			}
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":      "rate limit exceeded",
				"retryAfter": secs,
			})
		}
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}

// buildRateKey joins the parts named by the key strategy, e.g.
// "ip_user_route" -> prefix:ip:<ip>:user:<id>:route:<method path>.
// Unknown names are skipped; a strategy naming nothing keys on all three.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	part := func(name string) (string, bool) {
		switch name {
		case "ip":
			if ip := c.RealIP(); ip != "" {
				return ip, true
			}
			return "unknown", true
		case "user":
			return userID(c), true
		case "route":
			return c.Request().Method + " " + c.Path(), true
		}
		return "", false
	}

	key := []string{cfg.Prefix}
	for _, name := range strings.Split(strings.ToLower(cfg.KeyStrategy), "_") {
		if v, ok := part(name); ok {
			key = append(key, name, v)
		}
	}
	if len(key) == 1 {
		for _, name := range []string{"ip", "user", "route"} {
			v, _ := part(name)
			key = append(key, name, v)
		}
	}
	return strings.Join(key, ":")
}
