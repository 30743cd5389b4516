// AngelaMos | 2026
// repository.go

package activity

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/yassaka/internal/session"
)

type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	ListVisible(ctx context.Context, scope session.Scope, limit int) ([]Record, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db   *sqlx.DB
	kind Kind
}

func NewRepository(db *sqlx.DB, kind Kind) Repository {
	return &repository{db: db, kind: kind}
}

func (r *repository) Insert(ctx context.Context, rec *Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_username, data, cliente, responsavel)
		VALUES ($1, $2, $3, $4)
		RETURNING id, criado_em`, r.kind.Table())

	err := r.db.GetContext(ctx, rec, query,
		rec.Owner,
		rec.Date,
		rec.Client,
		rec.Responsible,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.kind.Name, err)
	}

	return nil
}

func (r *repository) ListVisible(
	ctx context.Context,
	scope session.Scope,
	limit int,
) ([]Record, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_username, data, cliente, responsavel, criado_em
		FROM %s
		WHERE ($1::text IS NULL OR owner_username = $1)
		ORDER BY id DESC
		LIMIT $2`, r.kind.Table())

	records := []Record{}
	if err := r.db.SelectContext(ctx, &records, query, scope.OwnerArg(), limit); err != nil {
		return nil, fmt.Errorf("list %ss: %w", r.kind.Name, err)
	}

	return records, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+r.kind.Table()); err != nil {
		return 0, fmt.Errorf("count %ss: %w", r.kind.Name, err)
	}
	return n, nil
}
