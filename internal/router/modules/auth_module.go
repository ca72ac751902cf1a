package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/a704/dodream-backend/internal/interface/http"
	"github.com/a704/dodream-backend/internal/interface/middleware"
)

// TeacherAuthModule serves the public teacher verify/signup/login routes.
type TeacherAuthModule struct {
	Handler *handlers.TeacherAuthHandler
	Redis   *redis.Client
}

func NewTeacherAuthModule(h *handlers.TeacherAuthHandler, rdb *redis.Client) *TeacherAuthModule {
	return &TeacherAuthModule{Handler: h, Redis: rdb}
}

func (m *TeacherAuthModule) Register(rg *gin.RouterGroup) {
	verifyLimiter := middleware.RateLimit(m.Redis, middleware.PerIP(30, time.Minute))
	signupLimiter := middleware.RateLimit(m.Redis, middleware.PerIP(5, time.Minute))
	loginLimiter := middleware.RateLimit(m.Redis, middleware.PerIP(10, time.Minute))

	g := rg.Group("/auth/teacher")
	g.POST("/verify", verifyLimiter, m.Handler.Verify)
	g.POST("/signup", signupLimiter, m.Handler.Signup)
	g.POST("/login", loginLimiter, m.Handler.Login)
}
