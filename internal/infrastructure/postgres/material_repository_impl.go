package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/internal/domain/repository"
)

type MaterialRepository struct {
	db DB
}

func NewMaterialRepository(db DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(ctx context.Context, m *entity.Material) error {
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO materials (owner_id, title, object_url, content_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.OwnerID, m.Title, m.ObjectURL, m.ContentType)
	if err := row.Scan(&m.ID, &m.CreatedAt); err != nil {
		return oops.Code("MATERIAL_CREATE_FAILED").With("owner_id", m.OwnerID).Wrap(err)
	}
	return nil
}

func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	m := &entity.Material{}
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT id, owner_id, title, object_url, content_type, created_at
		FROM materials
		WHERE id = $1
	`, id).Scan(&m.ID, &m.OwnerID, &m.Title, &m.ObjectURL, &m.ContentType, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, oops.Code("MATERIAL_GET_FAILED").With("material_id", id).Wrap(err)
	}
	return m, nil
}

var _ repository.MaterialRepository = (*MaterialRepository)(nil)
