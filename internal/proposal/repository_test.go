// AngelaMos | 2026
// repository_test.go

package proposal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
	"github.com/carterperez-dev/yassaka/internal/storetest"
)

func TestRepository_VisibilityAgainstStore(t *testing.T) {
	db := storetest.Open(t, "app.propostas")
	repo := NewRepository(db)
	ctx := context.Background()

	for _, head := range []string{"u", "u", "other", "u"} {
		p := &Proposal{
			Client:      "c",
			Product:     "p",
			Value:       decimal.RequireFromString("10.50"),
			Classes:     1,
			Head:        head,
			Temperature: Cold,
		}
		if err := repo.Insert(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if p.ID == 0 || p.CreatedAt.IsZero() {
			t.Fatalf("store did not assign id/created_at: %+v", p)
		}
	}

	mine, err := repo.ListVisible(ctx, session.OwnerScope("u"), 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ids := proposalIDs(mine); !equalIDs(ids, []int64{4, 2, 1}) {
		t.Errorf("owner scope = %v", ids)
	}

	all, err := repo.ListVisible(ctx, (&session.Session{Username: "root", Role: session.RoleAdmin}).Scope(), 50)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if ids := proposalIDs(all); !equalIDs(ids, []int64{4, 3, 2, 1}) {
		t.Errorf("all owners = %v", ids)
	}
	if !all[0].Value.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("value round trip = %s", all[0].Value)
	}

	totals, err := repo.TotalsByTemperature(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 1 || totals[0].Count != 4 ||
		!totals[0].Value.Equal(decimal.RequireFromString("42")) {
		t.Errorf("totals = %+v", totals)
	}
}

func TestCheckViolation_RendersAsFieldError(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"propostas_valor_chk", "value"},
		{"propostas_qmf_chk", "temperature"},
		{"propostas_turmas_chk", "classes"},
		{"something_else_chk", "proposal"},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: core.PgCheckViolation, ConstraintName: tt.constraint}
			err := fmt.Errorf("insert proposal: %w", checkViolation(pgErr))

			rec := httptest.NewRecorder()
			core.JSONError(rec, err)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"`+tt.field+`"`) {
				t.Errorf("body %s should name %q", rec.Body, tt.field)
			}
		})
	}
}
