package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/pkg/helpers"
	"github.com/a704/dodream-backend/pkg/response"
)

// Gin context keys set by Auth.
const (
	CtxUserID   = "userID"
	CtxUserName = "userName"
	CtxUserRole = "userRole"
)

// Auth validates the access token cookie. With Redis it also requires the
// token's session id to match the user's live session, so logout and refresh
// rotation revoke older tokens.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.AccessCookie)
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token")
			return
		}

		name := ""
		if rdb != nil {
			live, err := helpers.LoadSession(c.Request.Context(), rdb, claims.UserID)
			if err != nil || live.SID != claims.SessionID {
				response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "session not found")
				return
			}
			name = live.Name
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserName, name)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through only when Auth stored one of roles.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.Role(c.GetString(CtxUserRole))
		if !slices.Contains(roles, role) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
			return
		}
		c.Next()
	}
}
