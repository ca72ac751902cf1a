package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/a704/dodream-backend/internal/interface/middleware"
)

// MetricsModule exposes Prometheus metrics at /api/metrics.
type MetricsModule struct {
	Redis *redis.Client
}

func NewMetricsModule(rdb *redis.Client) *MetricsModule { return &MetricsModule{Redis: rdb} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, middleware.Limit{Max: 120, Window: time.Minute, Key: middleware.KeyByIPAndPath(), Skip: middleware.SkipPrivateIP})
	rg.GET("/metrics", rl, gin.WrapH(promhttp.Handler()))
}
