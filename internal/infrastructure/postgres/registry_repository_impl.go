package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/internal/domain/repository"
)

type RegistryRepository struct {
	db DB
}

func NewRegistryRepository(db DB) *RegistryRepository {
	return &RegistryRepository{db: db}
}

// Exists matches name and teacher number exactly.
func (r *RegistryRepository) Exists(ctx context.Context, name, teacherNo string) (bool, error) {
	var ok bool
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM registry_entry WHERE name = $1 AND teacher_no = $2
		)
	`, name, teacherNo).Scan(&ok)
	if err != nil {
		return false, oops.Code("REGISTRY_LOOKUP_FAILED").
			With("teacher_no", teacherNo).
			Wrap(err)
	}
	return ok, nil
}

// Upsert loads registry entries for administrative seeding. Existing entries
// are left alone. It returns how many rows were inserted.
func (r *RegistryRepository) Upsert(ctx context.Context, entries []entity.RegistryEntry) (int64, error) {
	var inserted int64
	for _, e := range entries {
		tag, err := conn(ctx, r.db).Exec(ctx, `
			INSERT INTO registry_entry (name, teacher_no)
			VALUES ($1, $2)
			ON CONFLICT ON CONSTRAINT registry_entry_name_teacher_no_key DO NOTHING
		`, e.Name, e.TeacherNo)
		if err != nil {
			return inserted, oops.Code("REGISTRY_UPSERT_FAILED").
				With("teacher_no", e.TeacherNo).
				Wrap(err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

var _ repository.RegistryRepository = (*RegistryRepository)(nil)
