// AngelaMos | 2026
// storetest.go

// Package storetest opens the integration database for repository tests.
// Tests using it are skipped unless TEST_DATABASE_URL is set.
package storetest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/yassaka/internal/config"
	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/schema"
)

const EnvURL = "TEST_DATABASE_URL"

// Open connects, ensures the schema, and empties the given tables so each
// test starts from a known state. Packages run in parallel, so each one
// only truncates the tables it owns.
func Open(t *testing.T, tables ...string) *sqlx.DB {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skip(EnvURL + " not set")
	}

	ctx := context.Background()
	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:          url,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m := schema.NewMigrator(db.DB, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := m.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	for _, table := range tables {
		if _, err := db.DB.ExecContext(ctx, "TRUNCATE "+table+" RESTART IDENTITY"); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	return db.DB
}
