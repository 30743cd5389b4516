// AngelaMos | 2026
// repository.go

package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/yassaka/internal/core"
)

type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByUsername(ctx context.Context, username string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	SetActive(ctx context.Context, username string, active bool) error
	SetPassword(ctx context.Context, username, passwordHash string, mustChange bool) error
	UpdateHash(ctx context.Context, username, passwordHash string) error
	SetRole(ctx context.Context, username, role string) error
	Rename(ctx context.Context, from, to string) error
	AdminExists(ctx context.Context) (bool, error)
	CountActiveByRole(ctx context.Context) ([]RoleCount, error)
}

// ownerColumns lists every column holding an account username. A rename
// rewrites all of them in the same transaction as the account row.
var ownerColumns = []struct{ table, column string }{
	{"app.propostas", "head_responsavel"},
	{"app.reunioes_efetivadas", "owner_username"},
	{"app.contatos_efetivos", "owner_username"},
	{"app.atestados_educadores", "owner_username"},
	{"app.educadores", "owner_username"},
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO app.usuarios (username, senha_hash, role, is_active, must_change)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, account, query,
		account.Username,
		account.PasswordHash,
		account.Role,
		account.IsActive,
		account.MustChange,
	)
	if errors.Is(err, sql.ErrNoRows) || core.IsDuplicateKeyError(err) {
		return fmt.Errorf("create account: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*Account, error) {
	query := `
		SELECT id, username, senha_hash, role, is_active, must_change,
		       created_at, updated_at
		FROM app.usuarios
		WHERE username = $1`

	var account Account
	err := r.db.GetContext(ctx, &account, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
}

func (r *repository) List(ctx context.Context) ([]Account, error) {
	query := `
		SELECT id, username, role, is_active, must_change, created_at, updated_at
		FROM app.usuarios
		ORDER BY username`

	var accounts []Account
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, nil
}

func (r *repository) SetActive(
	ctx context.Context,
	username string,
	active bool,
) error {
	query := `
		UPDATE app.usuarios
		SET is_active = $2, updated_at = now()
		WHERE username = $1`

	return r.execOne(ctx, "set active", query, username, active)
}

func (r *repository) SetPassword(
	ctx context.Context,
	username, passwordHash string,
	mustChange bool,
) error {
	query := `
		UPDATE app.usuarios
		SET senha_hash = $2, must_change = $3, updated_at = now()
		WHERE username = $1`

	return r.execOne(ctx, "set password", query, username, passwordHash, mustChange)
}

func (r *repository) UpdateHash(
	ctx context.Context,
	username, passwordHash string,
) error {
	query := `
		UPDATE app.usuarios
		SET senha_hash = $2
		WHERE username = $1`

	return r.execOne(ctx, "update hash", query, username, passwordHash)
}

func (r *repository) SetRole(ctx context.Context, username, role string) error {
	query := `
		UPDATE app.usuarios
		SET role = $2, updated_at = now()
		WHERE username = $1`

	return r.execOne(ctx, "set role", query, username, role)
}

func (r *repository) Rename(ctx context.Context, from, to string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE app.usuarios
			SET username = $2, updated_at = now()
			WHERE username = $1`, from, to)
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("rename account: %w", core.ErrDuplicateKey)
		}
		if err != nil {
			return fmt.Errorf("rename account: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rename account: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("rename account: %w", core.ErrNotFound)
		}

		for _, oc := range ownerColumns {
			query := fmt.Sprintf(
				"UPDATE %s SET %s = $2 WHERE %s = $1",
				oc.table, oc.column, oc.column,
			)
			if _, err := tx.ExecContext(ctx, query, from, to); err != nil {
				return fmt.Errorf("rename owner in %s: %w", oc.table, err)
			}
		}

		return nil
	})
}

func (r *repository) AdminExists(ctx context.Context) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM app.usuarios WHERE role = 'admin' AND is_active)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query); err != nil {
		return false, fmt.Errorf("check admin exists: %w", err)
	}

	return exists, nil
}

func (r *repository) CountActiveByRole(ctx context.Context) ([]RoleCount, error) {
	query := `
		SELECT role, COUNT(*) AS total
		FROM app.usuarios
		WHERE is_active
		GROUP BY role
		ORDER BY role`

	var counts []RoleCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}

	return counts, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
