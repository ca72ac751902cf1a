package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a704/dodream-backend/pkg/response"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// HealthModule serves /api/health. Postgres is required; every other check
// only degrades the report.
type HealthModule struct {
	Required map[string]Check
	Optional map[string]Check
	Timeout  time.Duration
}

func NewHealthModule(required, optional map[string]Check) *HealthModule {
	return &HealthModule{Required: required, Optional: optional, Timeout: 2 * time.Second}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.handle)
}

func (m *HealthModule) handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), m.Timeout)
	defer cancel()

	report := map[string]string{}
	healthy := run(ctx, m.Required, report)
	run(ctx, m.Optional, report)

	if !healthy {
		response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "service unavailable", report)
		return
	}
	response.Success(c, http.StatusOK, report, "ok", nil)
}

func run(ctx context.Context, checks map[string]Check, report map[string]string) bool {
	ok := true
	for name, check := range checks {
		if err := check(ctx); err != nil {
			report[name] = "down"
			ok = false
			continue
		}
		report[name] = "up"
	}
	return ok
}
