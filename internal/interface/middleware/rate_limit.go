package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/a704/dodream-backend/pkg/response"
)

// KeyFunc builds a rate-limit key from the request.
type KeyFunc func(c *gin.Context) string

// KeyByIPAndPath limits each client IP per route.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		return "rl:path:" + route + ":ip:" + ClientIP(c)
	}
}

// KeyByUserID limits authenticated users by id and anonymous ones by IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserID); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ClientIP(c)
	}
}

// SkipPrivateIP exempts loopback and private network clients.
func SkipPrivateIP(c *gin.Context) bool {
	ip := net.ParseIP(ClientIP(c))
	return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
}

// Limit is a fixed window: at most Max requests per Window for each key.
type Limit struct {
	Max    int
	Window time.Duration
	Key    KeyFunc
	Skip   func(*gin.Context) bool
}

func PerIP(n int, window time.Duration) Limit {
	return Limit{Max: n, Window: window, Key: KeyByIPAndPath()}
}

func PerUser(n int, window time.Duration) Limit {
	return Limit{Max: n, Window: window, Key: KeyByUserID()}
}

// fixedWindow counts a hit and returns {count, pttl}. The first hit of a
// window starts its expiry.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit enforces l with counters in Redis. It fails open when rdb is nil
// or Redis errors. CORS preflights are never counted.
func RateLimit(rdb *redis.Client, l Limit) gin.HandlerFunc {
	if rdb == nil || l.Max <= 0 || l.Window <= 0 || l.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (l.Skip != nil && l.Skip(c)) {
			c.Next()
			return
		}

		res, err := fixedWindow.Run(c.Request.Context(), rdb, []string{l.Key(c)}, l.Window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			c.Next()
			return
		}
		count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond

		reset := writeLimitHeaders(c, l.Max, count, ttl)
		if count > l.Max {
			if reset > 0 {
				c.Header("Retry-After", strconv.Itoa(reset))
			}
			response.Abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
			return
		}
		c.Next()
	}
}

// writeLimitHeaders sets the X-RateLimit-* headers and returns the seconds
// until the window resets, rounded up.
func writeLimitHeaders(c *gin.Context, limit, count int, ttl time.Duration) int {
	reset := 0
	if ttl > 0 {
		reset = int((ttl + time.Second - 1) / time.Second)
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-count, 0)))
	c.Header("X-RateLimit-Reset", strconv.Itoa(reset))
	return reset
}
