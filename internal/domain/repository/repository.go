package repository

import (
	"context"
	"errors"

	"github.com/a704/dodream-backend/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a credential insert hits the email unique constraint.
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrDuplicateBookmark is returned when the user already bookmarked the position.
	ErrDuplicateBookmark = errors.New("duplicate bookmark")
)

// RegistryRepository reads the institutional teacher registry.
type RegistryRepository interface {
	Exists(ctx context.Context, name, teacherNo string) (bool, error)
}

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// TeacherProfileRepository stores teacher profiles.
type TeacherProfileRepository interface {
	Create(ctx context.Context, p *entity.TeacherProfile) error
	GetByUserID(ctx context.Context, userID string) (*entity.TeacherProfile, error)
}

// CredentialRepository stores email/password credentials.
// Create must return ErrDuplicateEmail when the email is already taken.
type CredentialRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*entity.PasswordCredential, error)
	Create(ctx context.Context, c *entity.PasswordCredential) error
}

// Transactor runs fn inside one storage transaction. Repositories called with the
// ctx passed to fn join that transaction. A non-nil error from fn rolls back.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MaterialRepository stores learning materials.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
}

// BookmarkRepository stores per-user bookmarks.
type BookmarkRepository interface {
	Find(ctx context.Context, userID string, materialID int64, titleID, stitleID string) (*entity.Bookmark, error)
	// Create must return ErrDuplicateBookmark when the position is already bookmarked.
	Create(ctx context.Context, b *entity.Bookmark) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID string) ([]entity.Bookmark, error)
}
