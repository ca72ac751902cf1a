package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/a704/dodream-backend/internal/interface/http"
	"github.com/a704/dodream-backend/internal/interface/middleware"
	"github.com/a704/dodream-backend/pkg/helpers"
)

type BookmarkModule struct {
	Handler *handlers.BookmarkHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewBookmarkModule(h *handlers.BookmarkHandler, jwt *helpers.JWTManager, rdb *redis.Client) *BookmarkModule {
	return &BookmarkModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *BookmarkModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/bookmarks")
	g.Use(
		middleware.Auth(m.Redis, m.JWT),
		middleware.RateLimit(m.Redis, middleware.PerUser(120, time.Minute)),
	)
	g.GET("", m.Handler.List)
	g.POST("/toggle", m.Handler.Toggle)
}
