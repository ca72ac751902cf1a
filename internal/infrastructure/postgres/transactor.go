package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/a704/dodream-backend/internal/domain/repository"
)

// Transactor begins a pgx transaction and binds it to the context handed to fn,
// so every repository call made with that context joins the transaction.
type Transactor struct {
	db DB
}

func NewTransactor(db DB) *Transactor {
	return &Transactor{db: db}
}

// InTransaction commits when fn returns nil and rolls back otherwise.
// fn's error is returned unchanged so callers can match sentinels.
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return oops.Code("TX_BEGIN_FAILED").Wrap(err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.Code("TX_COMMIT_FAILED").Wrap(err)
	}
	return nil
}

var _ repository.Transactor = (*Transactor)(nil)
