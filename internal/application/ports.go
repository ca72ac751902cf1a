package application

import (
	"context"
	"io"
	"time"

	"github.com/a704/dodream-backend/internal/domain/entity"
)

// PasswordHasher hashes passwords one way with a per-hash salt.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenIssuer opens a session for an authenticated user.
type TokenIssuer interface {
	IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error)
}

// LoginNotifier tells a user about a successful login.
type LoginNotifier interface {
	NotifyLogin(ctx context.Context, u *entity.User, email string, meta LoginMeta) error
}

// TeacherDoc is the searchable projection of a teacher account.
type TeacherDoc struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TeacherDirectory indexes teachers for name search.
type TeacherDirectory interface {
	Index(ctx context.Context, doc TeacherDoc) error
	Search(ctx context.Context, q string, size int) ([]TeacherDoc, error)
}

// ObjectStorage stores uploaded files and returns their URL.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// JobPublisher enqueues a JSON job.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// LoginMeta describes where a login came from.
type LoginMeta struct {
	IP        string
	UserAgent string
	At        time.Time
}
