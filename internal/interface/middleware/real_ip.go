package middleware

import (
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxRealIP = "real_ip"

// proxyHeaders are read in order; the first one holding a valid address wins.
// For X-Forwarded-For that is its left-most entry.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP resolves the client address once per request for the rate limiter
// and login notifications.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxRealIP, resolveIP(c))
		c.Next()
	}
}

func resolveIP(c *gin.Context) string {
	for _, h := range proxyHeaders {
		first, _, _ := strings.Cut(c.GetHeader(h), ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.Unmap().String()
		}
	}
	return c.ClientIP()
}

// ClientIP returns the address RealIP stored, then gin's own guess, then "unknown".
func ClientIP(c *gin.Context) string {
	for _, ip := range []string{c.GetString(ctxRealIP), c.ClientIP()} {
		if ip != "" {
			return ip
		}
	}
	return "unknown"
}
