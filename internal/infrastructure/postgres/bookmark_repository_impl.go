package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/internal/domain/repository"
)

const bookmarkPositionConstraint = "bookmarks_position_key"

type BookmarkRepository struct {
	db DB
}

func NewBookmarkRepository(db DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

func (r *BookmarkRepository) Find(ctx context.Context, userID string, materialID int64, titleID, stitleID string) (*entity.Bookmark, error) {
	b := &entity.Bookmark{}
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT id, user_id, material_id, title_id, stitle_id, created_at
		FROM bookmarks
		WHERE user_id = $1 AND material_id = $2 AND title_id = $3 AND stitle_id = $4
	`, userID, materialID, titleID, stitleID).
		Scan(&b.ID, &b.UserID, &b.MaterialID, &b.TitleID, &b.STitleID, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, oops.Code("BOOKMARK_GET_FAILED").With("user_id", userID).Wrap(err)
	}
	return b, nil
}

func (r *BookmarkRepository) Create(ctx context.Context, b *entity.Bookmark) error {
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO bookmarks (user_id, material_id, title_id, stitle_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT bookmarks_position_key DO NOTHING
		RETURNING id, created_at
	`, b.UserID, b.MaterialID, b.TitleID, b.STitleID)
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		// DO NOTHING returns no row on conflict and keeps the transaction usable.
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err, bookmarkPositionConstraint) {
			return repository.ErrDuplicateBookmark
		}
		return oops.Code("BOOKMARK_CREATE_FAILED").With("user_id", b.UserID).Wrap(err)
	}
	return nil
}

func (r *BookmarkRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return oops.Code("BOOKMARK_DELETE_FAILED").With("bookmark_id", id).Wrap(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByUser returns newest first.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string) ([]entity.Bookmark, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT id, user_id, material_id, title_id, stitle_id, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, oops.Code("BOOKMARK_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	defer rows.Close()

	out := make([]entity.Bookmark, 0)
	for rows.Next() {
		var b entity.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.MaterialID, &b.TitleID, &b.STitleID, &b.CreatedAt); err != nil {
			return nil, oops.Code("BOOKMARK_LIST_FAILED").With("operation", "scan").Wrap(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("BOOKMARK_LIST_FAILED").Wrap(err)
	}
	return out, nil
}

var _ repository.BookmarkRepository = (*BookmarkRepository)(nil)
