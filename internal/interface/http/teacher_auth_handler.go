package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/internal/application"
	"github.com/a704/dodream-backend/internal/interface/middleware"
	"github.com/a704/dodream-backend/pkg/helpers"
	"github.com/a704/dodream-backend/pkg/response"
	"github.com/a704/dodream-backend/pkg/validation"
)

// TeacherAuth is the teacher verify/signup/login flow.
type TeacherAuth interface {
	Verify(ctx context.Context, name, teacherNo string) error
	Signup(ctx context.Context, in application.SignupInput) (string, error)
	Login(ctx context.Context, email, password string, meta application.LoginMeta) (*application.LoginResponse, application.TokenPair, error)
}

type TeacherAuthHandler struct {
	Svc     TeacherAuth
	Logger  *logrus.Logger
	Cookies *helpers.TokenCookies
}

func NewTeacherAuthHandler(svc TeacherAuth, logger *logrus.Logger, cookies *helpers.TokenCookies) *TeacherAuthHandler {
	return &TeacherAuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type verifyRequest struct {
	Name      string `json:"name" binding:"required,personname"`
	TeacherNo string `json:"teacher_no" binding:"required,teacherno"`
}

type signupRequest struct {
	Name      string `json:"name" binding:"required,personname"`
	TeacherNo string `json:"teacher_no" binding:"required,teacherno"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

// Verify POST /api/auth/teacher/verify
func (h *TeacherAuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	if err := h.Svc.Verify(c.Request.Context(), req.Name, req.TeacherNo); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true}, "teacher verified", nil)
}

// Signup POST /api/auth/teacher/signup
func (h *TeacherAuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	userID, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name:      req.Name,
		TeacherNo: req.TeacherNo,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user_id": userID}, "signup successful", nil)
}

// Login POST /api/auth/teacher/login
func (h *TeacherAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	meta := application.LoginMeta{
		IP:        middleware.ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		At:        time.Now(),
	}
	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, meta)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if pair.AccessToken != "" {
		h.Cookies.Set(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	}
	response.Success(c, http.StatusOK, res, "login successful", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}
