package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a704/dodream-backend/pkg/response"
)

// Module is a feature slice that mounts its routes under the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects API-wide middleware and modules, then mounts them on
// the /api group in the order they were added.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	middlewares []gin.HandlerFunc
	modules     []Module
	registered  bool
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use adds middleware that runs before every module route.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	for _, m := range mods {
		if m != nil {
			r.modules = append(r.modules, m)
		}
	}
}

// RegisterAll mounts everything added so far and installs JSON 404/405
// fallbacks. Later calls do nothing.
func (r *Registry) RegisterAll() {
	if r.registered {
		return
	}
	r.registered = true

	r.API.Use(r.middlewares...)
	for _, m := range r.modules {
		m.Register(r.API)
	}

	r.Engine.HandleMethodNotAllowed = true
	r.Engine.NoRoute(func(c *gin.Context) {
		response.Abort(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.Engine.NoMethod(func(c *gin.Context) {
		response.Abort(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
}
