package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/a704/dodream-backend/internal/domain/entity"
	"github.com/a704/dodream-backend/internal/domain/repository"
)

const credentialEmailConstraint = "password_credential_email_key"

type CredentialRepository struct {
	db DB
}

func NewCredentialRepository(db DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM password_credential WHERE email = $1)
	`, email).Scan(&ok)
	if err != nil {
		return false, oops.Code("CREDENTIAL_LOOKUP_FAILED").Wrap(err)
	}
	return ok, nil
}

func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*entity.PasswordCredential, error) {
	c := &entity.PasswordCredential{}
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT user_id, email, password_hash
		FROM password_credential
		WHERE email = $1
	`, email).Scan(&c.UserID, &c.Email, &c.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, oops.Code("CREDENTIAL_GET_FAILED").Wrap(err)
	}
	return c, nil
}

// Create maps the email unique constraint to repository.ErrDuplicateEmail so a
// signup that loses the race to a concurrent one is reported like the pre-check.
func (r *CredentialRepository) Create(ctx context.Context, c *entity.PasswordCredential) error {
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO password_credential (user_id, email, password_hash)
		VALUES ($1, $2, $3)
	`, c.UserID, c.Email, c.PasswordHash)
	if err != nil {
		if isUniqueViolation(err, credentialEmailConstraint) {
			return repository.ErrDuplicateEmail
		}
		return oops.Code("CREDENTIAL_CREATE_FAILED").
			With("user_id", c.UserID).
			Wrap(err)
	}
	return nil
}

var _ repository.CredentialRepository = (*CredentialRepository)(nil)
