package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// TokenCookies writes the access/refresh token pair as HttpOnly cookies.
type TokenCookies struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

func NewTokenCookies(domain string, secure bool) *TokenCookies {
	return &TokenCookies{Domain: domain, Path: "/", Secure: secure, SameSite: http.SameSiteLaxMode}
}

// Set writes both tokens; each cookie lives until its token expires.
func (tc *TokenCookies) Set(c *gin.Context, access string, accessExp time.Time, refresh string, refreshExp time.Time) {
	tc.write(c, AccessCookie, access, secondsUntil(accessExp))
	tc.write(c, RefreshCookie, refresh, secondsUntil(refreshExp))
}

// Clear expires both cookies.
func (tc *TokenCookies) Clear(c *gin.Context) {
	tc.write(c, AccessCookie, "", -1)
	tc.write(c, RefreshCookie, "", -1)
}

func (tc *TokenCookies) write(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(tc.SameSite)
	c.SetCookie(name, value, maxAge, tc.Path, tc.Domain, tc.Secure, true)
}

func secondsUntil(t time.Time) int {
	return max(int(time.Until(t).Seconds()), 0)
}
