package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/a704/dodream-backend/config"
	"github.com/a704/dodream-backend/db/migrations"
	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/internal/domain/repository"
	pginfra "github.com/a704/dodream-backend/internal/infrastructure/postgres"
	"github.com/a704/dodream-backend/pkg/helpers"
)

var demoRegistry = []entity.RegistryEntry{
	{Name: "Kim", TeacherNo: "T100"},
	{Name: "Park", TeacherNo: "T200"},
	{Name: "Lee", TeacherNo: "T300"},
}

const (
	studentName     = "Demo Student"
	studentEmail    = "student@dodream.local"
	studentPassword = "password123"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.DB.DSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.DB.DSN(), migrations.Source(cfg.DB.MigrationsDir), logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	entries := demoRegistry
	if path := os.Getenv("SEED_REGISTRY_CSV"); path != "" {
		entries, err = readRegistryCSV(path)
		if err != nil {
			logger.WithError(err).WithField("path", path).Fatal("read registry csv")
		}
	}
	n, err := pginfra.NewRegistryRepository(pool).Upsert(ctx, entries)
	if err != nil {
		logger.WithError(err).Fatal("failed to seed registry")
	}
	fmt.Printf("registry: %d new of %d entries\n", n, len(entries))

	hash, err := helpers.NewBcryptHasher(cfg.Auth.BcryptCost).Hash(studentPassword)
	if err != nil {
		logger.WithError(err).Fatal("failed to hash password")
	}

	users := pginfra.NewUserRepository(pool)
	creds := pginfra.NewCredentialRepository(pool)
	err = pginfra.NewTransactor(pool).InTransaction(ctx, func(ctx context.Context) error {
		u := &entity.User{Name: studentName, Role: entity.RoleStudent}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		return creds.Create(ctx, &entity.PasswordCredential{UserID: u.ID, Email: studentEmail, PasswordHash: hash})
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		fmt.Printf("student %s already present\n", studentEmail)
	case err != nil:
		logger.WithError(err).Fatal("failed to seed student")
	default:
		fmt.Printf("seeded student: email=%s password=%s\n", studentEmail, studentPassword)
	}
}

// readRegistryCSV reads "name,teacher_no" rows. A header row is skipped.
func readRegistryCSV(path string) ([]entity.RegistryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	var out []entity.RegistryEntry
	for line := 1; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(rec[0], "name") {
			continue
		}
		name, no := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if name == "" || no == "" {
			return nil, fmt.Errorf("line %d: empty name or teacher_no", line)
		}
		out = append(out, entity.RegistryEntry{Name: name, TeacherNo: no})
	}
	return out, nil
}
