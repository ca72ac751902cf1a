package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/a704/dodream-backend/internal/domain/entity"
	handlers "github.com/a704/dodream-backend/internal/interface/http"
	"github.com/a704/dodream-backend/internal/interface/middleware"
	"github.com/a704/dodream-backend/pkg/helpers"
)

// MaterialModule: uploads are teacher-only, reads need any session.
type MaterialModule struct {
	Handler *handlers.MaterialHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewMaterialModule(h *handlers.MaterialHandler, jwt *helpers.JWTManager, rdb *redis.Client) *MaterialModule {
	return &MaterialModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *MaterialModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/materials")
	g.Use(middleware.Auth(m.Redis, m.JWT))
	g.GET("/:id", m.Handler.Get)
	g.POST("",
		middleware.RequireRole(entity.RoleTeacher),
		middleware.RateLimit(m.Redis, middleware.PerUser(20, time.Minute)),
		m.Handler.Upload,
	)
}
