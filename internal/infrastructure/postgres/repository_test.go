package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		mock.Close()
	})
	return mock
}

func TestRegistryRepository_Exists(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      bool
		wantErr   bool
	}{
		{
			name: "entry present",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("Kim", "T100").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name: "entry absent",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("Kim", "T100").
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
			},
			want: false,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("Kim", "T100").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setupMock(mock)

			got, err := NewRegistryRepository(mock).Exists(context.Background(), "Kim", "T100")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "connection refused")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Kim", "TEACHER").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("u-1", now))

	u := &entity.User{Name: "Kim", Role: entity.RoleTeacher}
	require.NoError(t, NewUserRepository(mock).Create(context.Background(), u))
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, now, u.CreatedAt)
}

func TestUserRepository_Create_RejectsUnknownRole(t *testing.T) {
	mock := newMock(t)

	err := NewUserRepository(mock).Create(context.Background(), &entity.User{Name: "Kim", Role: "ADMIN"})
	assert.Error(t, err)
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT id, name, role, created_at`).
			WithArgs("u-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "role", "created_at"}).
				AddRow("u-1", "Lee", "STUDENT", time.Now()))

		u, err := NewUserRepository(mock).GetByID(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleStudent, u.Role)
		assert.Equal(t, "Lee", u.Name)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT id, name, role, created_at`).
			WithArgs("u-2").
			WillReturnError(pgx.ErrNoRows)

		_, err := NewUserRepository(mock).GetByID(context.Background(), "u-2")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCredentialRepository_Create(t *testing.T) {
	cred := &entity.PasswordCredential{UserID: "u-1", Email: "kim@x.edu", PasswordHash: "$2a$04$hash"}

	tests := []struct {
		name      string
		dbErr     error
		wantIs    error
		wantErr   bool
		errSubstr string
	}{
		{name: "inserted"},
		{
			name:    "email unique violation",
			dbErr:   &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: credentialEmailConstraint},
			wantIs:  repository.ErrDuplicateEmail,
			wantErr: true,
		},
		{
			name:      "user_id unique violation is not a duplicate email",
			dbErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "password_credential_user_id_key"},
			wantErr:   true,
			errSubstr: "23505",
		},
		{
			name:      "other failure",
			dbErr:     errors.New("disk full"),
			wantErr:   true,
			errSubstr: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			exp := mock.ExpectExec(`INSERT INTO password_credential`).
				WithArgs(cred.UserID, cred.Email, cred.PasswordHash)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := NewCredentialRepository(mock).Create(context.Background(), cred)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			} else {
				assert.NotErrorIs(t, err, repository.ErrDuplicateEmail)
			}
			if tt.errSubstr != "" {
				assert.Contains(t, err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestCredentialRepository_GetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT user_id, email, password_hash`).
			WithArgs("kim@x.edu").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email", "password_hash"}).
				AddRow("u-1", "kim@x.edu", "$2a$04$hash"))

		c, err := NewCredentialRepository(mock).GetByEmail(context.Background(), "kim@x.edu")
		require.NoError(t, err)
		assert.Equal(t, "u-1", c.UserID)
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT user_id, email, password_hash`).
			WithArgs("nobody@x.edu").
			WillReturnError(pgx.ErrNoRows)

		_, err := NewCredentialRepository(mock).GetByEmail(context.Background(), "nobody@x.edu")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCredentialRepository_ExistsByEmail(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM password_credential`).
		WithArgs("kim@x.edu").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewCredentialRepository(mock).ExistsByEmail(context.Background(), "kim@x.edu")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBookmarkRepository_ListByUser(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`FROM bookmarks`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "material_id", "title_id", "stitle_id", "created_at"}).
			AddRow(int64(2), "u-1", int64(7), "t2", "s1", now).
			AddRow(int64(1), "u-1", int64(7), "t1", "", now.Add(-time.Minute)))

	got, err := NewBookmarkRepository(mock).ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, "s1", got[0].STitleID)
}

func TestBookmarkRepository_Delete_Missing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM bookmarks`).
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewBookmarkRepository(mock).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBookmarkRepository_Create(t *testing.T) {
	tests := []struct {
		name   string
		dbErr  error
		wantIs error
	}{
		{name: "inserted"},
		{name: "conflict returns no row", dbErr: pgx.ErrNoRows, wantIs: repository.ErrDuplicateBookmark},
		{
			name:   "position unique violation",
			dbErr:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: bookmarkPositionConstraint},
			wantIs: repository.ErrDuplicateBookmark,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			b := &entity.Bookmark{UserID: "u-1", MaterialID: 7, TitleID: "t1", STitleID: "s1"}
			exp := mock.ExpectQuery(`INSERT INTO bookmarks`).
				WithArgs(b.UserID, b.MaterialID, b.TitleID, b.STitleID)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(4), time.Now()))
			}

			err := NewBookmarkRepository(mock).Create(context.Background(), b)
			if tt.wantIs == nil {
				require.NoError(t, err)
				assert.Equal(t, int64(4), b.ID)
				return
			}
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestMaterialRepository_GetByID_Missing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM materials`).
		WithArgs(int64(3)).
		WillReturnError(pgx.ErrNoRows)

	_, err := NewMaterialRepository(mock).GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegistryRepository_Upsert(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO registry_entry`).
		WithArgs("Kim", "T100").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO registry_entry`).
		WithArgs("Park", "T200").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	n, err := NewRegistryRepository(mock).Upsert(context.Background(), []entity.RegistryEntry{
		{Name: "Kim", TeacherNo: "T100"},
		{Name: "Park", TeacherNo: "T200"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
