package router

import (
	"context"
	"errors"

	"github.com/a704/dodream-backend/internal/application"
	"github.com/a704/dodream-backend/internal/container"
	pginfra "github.com/a704/dodream-backend/internal/infrastructure/postgres"
	"github.com/a704/dodream-backend/internal/infrastructure/search"
	"github.com/a704/dodream-backend/internal/infrastructure/storage"
	handlers "github.com/a704/dodream-backend/internal/interface/http"
	"github.com/a704/dodream-backend/internal/router/modules"
	"github.com/a704/dodream-backend/pkg/helpers"
)

type accountDeps struct {
	Auth     *application.TeacherAuthService
	Sessions *application.SessionService
}

func buildAccountDeps(c *container.Container) accountDeps {
	users := pginfra.NewUserRepository(c.DB)

	auth := application.NewTeacherAuthService(
		pginfra.NewRegistryRepository(c.DB),
		users,
		pginfra.NewTeacherProfileRepository(c.DB),
		pginfra.NewCredentialRepository(c.DB),
		pginfra.NewTransactor(c.DB),
		helpers.NewBcryptHasher(c.Cfg.Auth.BcryptCost),
		c.Logger,
	)
	sessions := application.NewSessionService(c.JWT, c.Redis, users, c.Logger, c.Cfg.Auth.SessionTTL)
	auth.Sessions = sessions

	if c.ES != nil {
		auth.Directory = search.NewTeacherDirectory(c.ES, c.Cfg.Search.TeachersIndex)
	}
	if c.Publisher != nil && c.Cfg.Mail.Enabled {
		auth.Notifier = application.NewEmailLoginNotifier(c.Publisher, c.Cfg.AppName, c.Cfg.Mail.SupportURL)
	}
	return accountDeps{Auth: auth, Sessions: sessions}
}

func buildMaterialServices(c *container.Container) (*application.MaterialService, *application.BookmarkService) {
	materials := pginfra.NewMaterialRepository(c.DB)

	var objects application.ObjectStorage
	if c.GCS != nil && c.Cfg.Storage.Bucket != "" {
		objects = storage.NewGCSStorage(c.GCS, c.Cfg.Storage.Bucket)
	}

	materialSvc := application.NewMaterialService(materials, pginfra.NewUserRepository(c.DB), objects, c.Logger)
	bookmarkSvc := application.NewBookmarkService(
		pginfra.NewBookmarkRepository(c.DB),
		materials,
		pginfra.NewTransactor(c.DB),
		c.Logger,
	)
	return materialSvc, bookmarkSvc
}

// InitModules builds every feature module from c and registers it on r.
// Call once during startup.
func InitModules(r *Registry, c *container.Container) {
	account := buildAccountDeps(c)
	materialSvc, bookmarkSvc := buildMaterialServices(c)
	cookies := c.Cookies()

	r.Add(modules.NewTeacherAuthModule(
		handlers.NewTeacherAuthHandler(account.Auth, c.Logger, cookies),
		c.Redis,
	))
	r.Add(modules.NewUserModule(
		handlers.NewUserHandler(account.Sessions, account.Auth, c.Logger, cookies),
		c.JWT,
		c.Redis,
	))
	r.Add(modules.NewBookmarkModule(handlers.NewBookmarkHandler(bookmarkSvc, c.Logger), c.JWT, c.Redis))
	r.Add(modules.NewMaterialModule(handlers.NewMaterialHandler(materialSvc, c.Logger), c.JWT, c.Redis))
	if c.Cfg.MetricsEnabled {
		r.Add(modules.NewMetricsModule(c.Redis))
	}
	r.Add(modules.NewHealthModule(healthChecks(c)))
}

func healthChecks(c *container.Container) (required, optional map[string]modules.Check) {
	required = map[string]modules.Check{}
	optional = map[string]modules.Check{}
	if p, ok := c.DB.(interface{ Ping(context.Context) error }); ok {
		required["postgres"] = p.Ping
	}
	if c.Redis != nil {
		optional["redis"] = func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() }
	}
	if c.ES != nil {
		optional["elasticsearch"] = func(ctx context.Context) error {
			res, err := c.ES.Ping(c.ES.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer func() { _ = res.Body.Close() }()
			if res.IsError() {
				return errors.New(res.Status())
			}
			return nil
		}
	}
	return required, optional
}
