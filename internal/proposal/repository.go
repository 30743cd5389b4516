// AngelaMos | 2026
// repository.go

package proposal

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

type Repository interface {
	Insert(ctx context.Context, p *Proposal) error
	ListVisible(ctx context.Context, scope session.Scope, limit int) ([]Proposal, error)
	TotalsByTemperature(ctx context.Context) ([]TagTotal, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Insert stores p and fills in the id and creation time assigned by the
// store.
func (r *repository) Insert(ctx context.Context, p *Proposal) error {
	query := `
		INSERT INTO app.propostas (cliente, produto, valor, turmas, head_responsavel, qmf)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, criado_em`

	err := r.db.GetContext(ctx, p, query,
		p.Client,
		p.Product,
		p.Value,
		p.Classes,
		p.Head,
		string(p.Temperature),
	)
	if core.IsCheckViolation(err) {
		return fmt.Errorf("insert proposal: %w", checkViolation(err))
	}
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}

	return nil
}

func (r *repository) ListVisible(
	ctx context.Context,
	scope session.Scope,
	limit int,
) ([]Proposal, error) {
	query := `
		SELECT id, cliente, produto, valor, turmas, head_responsavel, qmf, criado_em
		FROM app.propostas
		WHERE ($1::text IS NULL OR head_responsavel = $1)
		ORDER BY id DESC
		LIMIT $2`

	proposals := []Proposal{}
	if err := r.db.SelectContext(ctx, &proposals, query, scope.OwnerArg(), limit); err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}

	return proposals, nil
}

func (r *repository) TotalsByTemperature(ctx context.Context) ([]TagTotal, error) {
	query := `
		SELECT qmf, COUNT(*) AS total, COALESCE(SUM(valor), 0) AS valor
		FROM app.propostas
		GROUP BY qmf
		ORDER BY qmf`

	var totals []TagTotal
	if err := r.db.SelectContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("proposal totals: %w", err)
	}

	return totals, nil
}

var checkFields = map[string]string{
	"propostas_qmf_chk":    "temperature",
	"propostas_valor_chk":  "value",
	"propostas_turmas_chk": "classes",
}

// checkViolation reports a check constraint rejected by the store as a
// field error on the request field it guards.
func checkViolation(err error) *core.ValidationError {
	field, ok := checkFields[core.PgConstraint(err)]
	if !ok {
		field = "proposal"
	}
	v := core.NewValidationError()
	v.Add(field, field+" was rejected by the store")
	return v
}
