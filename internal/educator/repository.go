// AngelaMos | 2026
// repository.go

package educator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

type Repository interface {
	// Upsert updates the owner's most recent profile in place or inserts
	// the first one. It reports whether a row was inserted.
	Upsert(ctx context.Context, p *Profile) (bool, error)
	GetLatest(ctx context.Context, owner string) (*Profile, error)
	ListVisible(ctx context.Context, scope session.Scope, limit int) ([]Profile, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const profileColumns = `
	id, owner_username, empresa, data_reuniao, contato_nome, contato_telefone,
	projeto, valor_projeto, atestados, estado, nome_educador, criado_em, atualizado_em`

func (r *repository) Upsert(ctx context.Context, p *Profile) (bool, error) {
	var inserted bool

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// Serializes concurrent first submissions for the same owner so
		// they cannot both insert.
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtext('app.educadores'), hashtext($1))`,
			p.Owner,
		); err != nil {
			return fmt.Errorf("lock profile: %w", err)
		}

		var id int64
		err := tx.GetContext(ctx, &id, `
			SELECT id FROM app.educadores
			WHERE owner_username = $1
			ORDER BY id DESC
			LIMIT 1
			FOR UPDATE`, p.Owner)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			inserted = true
			return tx.GetContext(ctx, p, `
				INSERT INTO app.educadores
					(owner_username, empresa, data_reuniao, contato_nome, contato_telefone,
					 projeto, valor_projeto, atestados, estado, nome_educador)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id, criado_em, atualizado_em`,
				p.Owner, p.Company, p.MeetingDate, p.ContactName, p.ContactPhone,
				p.Project, p.ProjectValue, p.Certificates, p.State, p.EducatorName,
			)
		case err != nil:
			return fmt.Errorf("find profile: %w", err)
		}

		return tx.GetContext(ctx, p, `
			UPDATE app.educadores
			SET empresa = $2, data_reuniao = $3, contato_nome = $4,
			    contato_telefone = $5, projeto = $6, valor_projeto = $7,
			    atestados = $8, estado = $9, nome_educador = $10,
			    atualizado_em = now()
			WHERE id = $1
			RETURNING id, criado_em, atualizado_em`,
			id, p.Company, p.MeetingDate, p.ContactName, p.ContactPhone,
			p.Project, p.ProjectValue, p.Certificates, p.State, p.EducatorName,
		)
	})
	if err != nil {
		return false, fmt.Errorf("upsert profile: %w", err)
	}

	return inserted, nil
}

func (r *repository) GetLatest(ctx context.Context, owner string) (*Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM app.educadores
		WHERE owner_username = $1
		ORDER BY id DESC
		LIMIT 1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &p, nil
}

func (r *repository) ListVisible(
	ctx context.Context,
	scope session.Scope,
	limit int,
) ([]Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM app.educadores
		WHERE ($1::text IS NULL OR owner_username = $1)
		ORDER BY id DESC
		LIMIT $2`

	profiles := []Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query, scope.OwnerArg(), limit); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return profiles, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(DISTINCT owner_username) FROM app.educadores`); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}
