package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/config"
	"github.com/a704/dodream-backend/internal/application"
	"github.com/a704/dodream-backend/internal/infrastructure/postgres"
	"github.com/a704/dodream-backend/pkg/helpers"
)

// Container carries the process-wide clients built in main.
// Optional clients stay nil when their backend is not configured.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	DB     postgres.DB
	JWT    *helpers.JWTManager

	Redis     *redis.Client
	GCS       *storage.Client
	ES        *elasticsearch.Client
	Publisher application.JobPublisher
}

// Cookies returns the token cookie writer for the configured domain.
func (c *Container) Cookies() *helpers.TokenCookies {
	return helpers.NewTokenCookies(c.Cfg.Auth.CookieDomain, c.Cfg.Auth.CookieSecure)
}

// Close releases the optional clients. The database pool is owned by main.
func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if closer, ok := c.Publisher.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
