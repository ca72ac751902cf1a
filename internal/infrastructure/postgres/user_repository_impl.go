package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/internal/domain/repository"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u and fills the generated ID and CreatedAt.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if !u.Role.Valid() {
		return oops.Code("USER_INVALID_ROLE").With("role", u.Role).Errorf("unknown role %q", u.Role)
	}
	row := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO users (name, role)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, u.Name, string(u.Role))

	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("role", u.Role).
			Wrap(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u := &entity.User{}
	var role string

	row := conn(ctx, r.db).QueryRow(ctx, `
		SELECT id, name, role, created_at
		FROM users
		WHERE id = $1
	`, id)

	if err := row.Scan(&u.ID, &u.Name, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, oops.Code("USER_GET_FAILED").With("user_id", id).Wrap(err)
	}
	u.Role = entity.Role(role)

	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)

type TeacherProfileRepository struct {
	db DB
}

func NewTeacherProfileRepository(db DB) *TeacherProfileRepository {
	return &TeacherProfileRepository{db: db}
}

func (r *TeacherProfileRepository) Create(ctx context.Context, p *entity.TeacherProfile) error {
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO teacher_profile (user_id, teacher_no)
		VALUES ($1, $2)
	`, p.UserID, p.TeacherNo)
	if err != nil {
		return oops.Code("TEACHER_PROFILE_CREATE_FAILED").
			With("user_id", p.UserID).
			Wrap(err)
	}
	return nil
}

func (r *TeacherProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.TeacherProfile, error) {
	p := &entity.TeacherProfile{}
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT user_id, teacher_no
		FROM teacher_profile
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.TeacherNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, oops.Code("TEACHER_PROFILE_GET_FAILED").With("user_id", userID).Wrap(err)
	}
	return p, nil
}

var _ repository.TeacherProfileRepository = (*TeacherProfileRepository)(nil)
