package postgres

import (
	"database/sql"
	"errors"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

// RunMigrations brings the schema at dsn up to the newest migration in src.
func RunMigrations(dsn string, src fs.FS, logger *logrus.Logger) error {
	source, err := iofs.New(src, ".")
	if err != nil {
		return oops.Code("MIGRATE_SOURCE").Wrap(err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return oops.Code("MIGRATE_CONNECT").Wrap(err)
	}
	defer func() { _ = db.Close() }()

	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return oops.Code("MIGRATE_CONNECT").Wrap(err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return oops.Code("MIGRATE_INIT").Wrap(err)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug("schema up to date")
	case err != nil:
		return oops.Code("MIGRATE_UP").Wrap(err)
	}

	if v, dirty, err := m.Version(); err == nil {
		logger.WithFields(logrus.Fields{"version": v, "dirty": dirty}).Info("schema migrated")
	}
	return nil
}
