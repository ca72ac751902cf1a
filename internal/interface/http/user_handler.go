package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/internal/application"
	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/internal/interface/middleware"
	"github.com/a704/dodream-backend/pkg/helpers"
	"github.com/a704/dodream-backend/pkg/response"
)

// Sessions refreshes and revokes login sessions.
type Sessions interface {
	Refresh(ctx context.Context, refreshToken string) (application.TokenPair, string, error)
	Revoke(ctx context.Context, userID string) error
}

// Profiles reads account data for the current user and the teacher directory.
type Profiles interface {
	TeacherProfile(ctx context.Context, userID string) (*entity.User, *entity.TeacherProfile, error)
	SearchTeachers(ctx context.Context, q string, size int) ([]application.TeacherDoc, error)
}

type UserHandler struct {
	Sessions Sessions
	Profiles Profiles
	Logger   *logrus.Logger
	Cookies  *helpers.TokenCookies
}

func NewUserHandler(sessions Sessions, profiles Profiles, logger *logrus.Logger, cookies *helpers.TokenCookies) *UserHandler {
	return &UserHandler{Sessions: sessions, Profiles: profiles, Logger: logger, Cookies: cookies}
}

type meResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Role      entity.Role `json:"role"`
	TeacherNo string      `json:"teacher_no,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Refresh POST /api/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing refresh token", nil)
		return
	}
	pair, _, err := h.Sessions.Refresh(c.Request.Context(), refresh)
	if err != nil {
		h.Cookies.Clear(c)
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid refresh token", nil)
		return
	}
	h.Cookies.Set(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Logout POST /api/logout
func (h *UserHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserID)
	if err := h.Sessions.Revoke(c.Request.Context(), uid); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Warn("session revoke failed")
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Me GET /api/me
func (h *UserHandler) Me(c *gin.Context) {
	u, p, err := h.Profiles.TeacherProfile(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	res := meResponse{ID: u.ID, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
	if p != nil {
		res.TeacherNo = p.TeacherNo
	}
	response.Success(c, http.StatusOK, res, "profile", nil)
}

// SearchTeachers GET /api/teachers/search?q=&size=
func (h *UserHandler) SearchTeachers(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Profiles.SearchTeachers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "teachers", gin.H{"count": len(hits)})
}
