// AngelaMos | 2026
// service_test.go

package proposal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

type fakeRepo struct {
	mu   sync.Mutex
	rows []Proposal
}

func (f *fakeRepo) Insert(_ context.Context, p *Proposal) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.ID = int64(len(f.rows) + 1)
	p.CreatedAt = time.Now().UTC()
	f.rows = append(f.rows, *p)
	return nil
}

func (f *fakeRepo) ListVisible(_ context.Context, scope session.Scope, limit int) ([]Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []Proposal{}
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if scope.Allows(f.rows[i].Head) {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) TotalsByTemperature(context.Context) ([]TagTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byTag := map[Temperature]*TagTotal{}
	var out []TagTotal
	for _, p := range f.rows {
		if byTag[p.Temperature] == nil {
			byTag[p.Temperature] = &TagTotal{Temperature: p.Temperature}
		}
		byTag[p.Temperature].Count++
		byTag[p.Temperature].Value = byTag[p.Temperature].Value.Add(p.Value)
	}
	for _, t := range Temperatures {
		if tt := byTag[t]; tt != nil {
			out = append(out, *tt)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func user(name string) *session.Session {
	return &session.Session{Username: name, Role: session.RoleUser}
}

func admin(name string) *session.Session {
	return &session.Session{Username: name, Role: session.RoleAdmin}
}

func validRequest() CreateProposalRequest {
	return CreateProposalRequest{
		Client:      "  Escola Alfa ",
		Product:     "Robotica",
		Value:       "R$ 1.234,565",
		Classes:     3,
		Temperature: "quente",
	}
}

func TestCreate_NormalizesFields(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.Create(context.Background(), user("ana"), validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if p.ID != 1 || p.Head != "ana" {
		t.Errorf("id/head = %d/%q", p.ID, p.Head)
	}
	if p.Client != "Escola Alfa" {
		t.Errorf("client not trimmed: %q", p.Client)
	}
	if !p.Value.Equal(decimal.RequireFromString("1234.57")) {
		t.Errorf("value = %s, want 1234.57", p.Value)
	}
	if p.Temperature != Hot {
		t.Errorf("temperature = %q", p.Temperature)
	}
	if len(repo.rows) != 1 {
		t.Errorf("rows = %d", len(repo.rows))
	}
}

func TestCreate_ValidationWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(*CreateProposalRequest)
	}{
		{"blank client", "client", func(r *CreateProposalRequest) { r.Client = "   " }},
		{"blank product", "product", func(r *CreateProposalRequest) { r.Product = "" }},
		{"unparsable value", "value", func(r *CreateProposalRequest) { r.Value = "abc" }},
		{"empty value", "value", func(r *CreateProposalRequest) { r.Value = " " }},
		{"negative value", "value", func(r *CreateProposalRequest) { r.Value = "-1,00" }},
		{"zero classes", "classes", func(r *CreateProposalRequest) { r.Classes = 0 }},
		{"unknown tag", "temperature", func(r *CreateProposalRequest) { r.Temperature = "X" }},
		{"foreign head", "head", func(r *CreateProposalRequest) { r.Head = "bruno" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			req := validRequest()
			tt.edit(&req)

			_, err := svc.Create(context.Background(), user("ana"), req)
			v, ok := core.AsValidationError(err)
			if !ok {
				t.Fatalf("err = %v, want validation error", err)
			}
			if !v.Has(tt.field) {
				t.Errorf("fields = %v, want %q", v.Fields, tt.field)
			}
			if !errors.Is(err, core.ErrInvalidInput) {
				t.Error("validation error should unwrap to ErrInvalidInput")
			}
			if len(repo.rows) != 0 {
				t.Error("invalid proposal was written")
			}
		})
	}
}

func TestCreate_Head(t *testing.T) {
	tests := []struct {
		name string
		sess *session.Session
		head string
		want string
	}{
		{"defaults to caller", user("ana"), "", "ana"},
		{"caller may name self", user("ana"), " ana ", "ana"},
		{"admin defaults to self", admin("root"), "", "root"},
		{"admin records for another head", admin("root"), "bruno", "bruno"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			req := validRequest()
			req.Head = tt.head

			p, err := svc.Create(context.Background(), tt.sess, req)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if p.Head != tt.want {
				t.Errorf("head = %q, want %q", p.Head, tt.want)
			}
		})
	}
}

func TestCreate_AdminProposalIsVisibleToHead(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	req := validRequest()
	req.Head = "bruno"

	if _, err := svc.Create(ctx, admin("root"), req); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.ListVisible(ctx, user("bruno"), 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Head != "bruno" {
		t.Errorf("bruno sees %v", got)
	}
}

func TestCreate_ZeroValueIsAllowed(t *testing.T) {
	svc, _ := newTestService()
	req := validRequest()
	req.Value = "0"

	p, err := svc.Create(context.Background(), user("ana"), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.Value.IsZero() {
		t.Errorf("value = %s", p.Value)
	}
}

func TestListVisible(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, owner := range []string{"u", "u", "other", "u"} {
		if _, err := svc.Create(ctx, user(owner), validRequest()); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	mine, err := svc.ListVisible(ctx, user("u"), 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ids := proposalIDs(mine); !equalIDs(ids, []int64{4, 2, 1}) {
		t.Errorf("user sees %v, want [4 2 1]", ids)
	}

	all, err := svc.ListVisible(ctx, admin("boss"), 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if ids := proposalIDs(all); !equalIDs(ids, []int64{4, 3, 2, 1}) {
		t.Errorf("admin sees %v, want [4 3 2 1]", ids)
	}

	limited, _ := svc.ListVisible(ctx, admin("boss"), 2)
	if len(limited) != 2 || limited[0].ID != 4 {
		t.Errorf("limit not honored: %v", proposalIDs(limited))
	}

	none, _ := svc.ListVisible(ctx, user("nobody"), 50)
	if len(none) != 0 {
		t.Errorf("stranger sees %v", proposalIDs(none))
	}
}

func TestParseTemperature(t *testing.T) {
	tests := map[string]Temperature{
		"Q": Hot, "hot": Hot, " Quente ": Hot,
		"m": Warm, "Warm": Warm, "morna": Warm,
		"F": Cold, "COLD": Cold, "fria": Cold,
	}
	for in, want := range tests {
		if got, ok := ParseTemperature(in); !ok || got != want {
			t.Errorf("ParseTemperature(%q) = %q, %v", in, got, ok)
		}
	}

	for _, bad := range []string{"", "x", "hotter"} {
		if _, ok := ParseTemperature(bad); ok {
			t.Errorf("ParseTemperature(%q) accepted", bad)
		}
	}
}

func proposalIDs(ps []Proposal) []int64 {
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
