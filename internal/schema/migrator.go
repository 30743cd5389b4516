// AngelaMos | 2026
// migrator.go

// Package schema brings the store to the expected structure. It runs on
// every start: each step states the condition under which it has work to do,
// and the DDL it issues is itself tolerant of re-application.
package schema

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/yassaka/internal/core"
)

// Step is one idempotent schema change.
type Step struct {
	Name string
	// Needed reports whether the step has work to do. A nil Needed means the
	// statements are unconditionally re-asserted.
	Needed func(ctx context.Context, tx *sqlx.Tx) (bool, error)
	SQL    []string
}

// Group is a set of steps applied inside one transaction.
type Group struct {
	Name  string
	Steps []Step
}

type Result struct {
	Applied []string
	Skipped []string
}

type Migrator struct {
	db     *sqlx.DB
	groups []Group
	logger *slog.Logger
}

func NewMigrator(db *sqlx.DB, logger *slog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		groups: Plan(),
		logger: logger,
	}
}

// raceCodes are what concurrent IF NOT EXISTS DDL from two starting
// instances can surface. A group failing with one of them is retried once.
var raceCodes = []string{
	core.PgUniqueViolation,
	core.PgDuplicateTable,
	core.PgDuplicateObject,
	core.PgDuplicateColumn,
	core.PgDuplicateSchema,
}

// EnsureSchema applies every group in order and stops at the first failure.
func (m *Migrator) EnsureSchema(ctx context.Context) (*Result, error) {
	result := &Result{}

	for _, g := range m.groups {
		applied, skipped, err := m.applyGroup(ctx, g)
		if err != nil && slices.Contains(raceCodes, core.PgErrorCode(err)) {
			m.logger.Warn("schema group raced with another instance, retrying",
				"group", g.Name,
				"error", err,
			)
			applied, skipped, err = m.applyGroup(ctx, g)
		}
		if err != nil {
			return result, fmt.Errorf("ensure schema: group %s: %w", g.Name, err)
		}

		result.Applied = append(result.Applied, applied...)
		result.Skipped = append(result.Skipped, skipped...)
	}

	m.logger.Info("schema ensured",
		"applied", len(result.Applied),
		"skipped", len(result.Skipped),
	)

	return result, nil
}

func (m *Migrator) applyGroup(
	ctx context.Context,
	g Group,
) (applied, skipped []string, err error) {
	ctx, span := core.StartSpan(ctx, "schema.group",
		attribute.String("schema.group", g.Name),
	)
	defer func() { core.EndSpan(span, err) }()

	err = core.InTx(ctx, m.db, func(tx *sqlx.Tx) error {
		applied, skipped = nil, nil

		for _, step := range g.Steps {
			needed := true
			if step.Needed != nil {
				ok, checkErr := step.Needed(ctx, tx)
				if checkErr != nil {
					return fmt.Errorf("step %s: check: %w", step.Name, checkErr)
				}
				needed = ok
			}

			if !needed {
				skipped = append(skipped, step.Name)
				continue
			}

			for _, stmt := range step.SQL {
				if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
					return fmt.Errorf("step %s: %w", step.Name, execErr)
				}
			}

			m.logger.Debug("schema step applied", "group", g.Name, "step", step.Name)
			applied = append(applied, step.Name)
		}

		return nil
	})

	return applied, skipped, err
}

// Groups exposes the plan the migrator will run.
func (m *Migrator) Groups() []Group {
	return m.groups
}

// queryBool runs a precondition query that always yields exactly one row.
func queryBool(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (bool, error) {
	var out bool
	if err := tx.GetContext(ctx, &out, query, args...); err != nil {
		return false, err
	}
	return out, nil
}
