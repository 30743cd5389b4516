// AngelaMos | 2026
// service_test.go

package educator

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
	rows []Profile
}

func (f *fakeRepo) Upsert(_ context.Context, p *Profile) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().UTC()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].Owner == p.Owner {
			p.ID = f.rows[i].ID
			p.CreatedAt = f.rows[i].CreatedAt
			p.UpdatedAt = now
			f.rows[i] = *p
			return false, nil
		}
	}

	p.ID = int64(len(f.rows) + 1)
	p.CreatedAt = now
	p.UpdatedAt = now
	f.rows = append(f.rows, *p)
	return true, nil
}

func (f *fakeRepo) GetLatest(_ context.Context, owner string) (*Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].Owner == owner {
			p := f.rows[i]
			return &p, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) ListVisible(_ context.Context, scope session.Scope, limit int) ([]Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []Profile{}
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if scope.Allows(f.rows[i].Owner) {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func edu(name string) *session.Session {
	return &session.Session{Username: name, Role: session.RoleEducator}
}

func fullRequest() UpsertProfileRequest {
	return UpsertProfileRequest{
		Company:      " Instituto Gama ",
		MeetingDate:  "2026-10-19",
		ContactName:  "Paula",
		ContactPhone: "+55 (11) 98765-4321",
		Project:      "Oficina de robotica",
		ProjectValue: "2.500,00",
		Certificates: "Ouro 2025",
		State:        "sp",
		EducatorName: "Joana",
	}
}

func TestUpsert_InsertThenOverwrite(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, created, err := svc.Upsert(ctx, edu("joana"), fullRequest())
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Error("first upsert should insert")
	}
	if p.State != "SP" || p.Company != "Instituto Gama" {
		t.Errorf("state/company = %q/%q", p.State, p.Company)
	}
	if p.ContactPhone == nil || *p.ContactPhone != "5511987654321" {
		t.Errorf("phone = %v", p.ContactPhone)
	}
	if !p.ProjectValue.Valid || !p.ProjectValue.Decimal.Equal(decimal.RequireFromString("2500")) {
		t.Errorf("value = %+v", p.ProjectValue)
	}

	req := fullRequest()
	req.Company = "Instituto Delta"
	req.ProjectValue = ""
	req.ContactPhone = ""
	p2, created, err := svc.Upsert(ctx, edu("joana"), req)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second upsert should update")
	}
	if p2.ID != p.ID || len(repo.rows) != 1 {
		t.Errorf("expected one row, got %d (ids %d/%d)", len(repo.rows), p.ID, p2.ID)
	}

	got, err := svc.Get(ctx, edu("joana"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Company != "Instituto Delta" || got.ProjectValue.Valid || got.ContactPhone != nil {
		t.Errorf("overwrite incomplete: %+v", got)
	}
}

func TestUpsert_Validation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		edit  func(*UpsertProfileRequest)
	}{
		{"blank company", "company", func(r *UpsertProfileRequest) { r.Company = " " }},
		{"blank name", "educator_name", func(r *UpsertProfileRequest) { r.EducatorName = "" }},
		{"three letter state", "state", func(r *UpsertProfileRequest) { r.State = "SPX" }},
		{"non ascii state", "state", func(r *UpsertProfileRequest) { r.State = "SÃ" }},
		{"short phone", "contact_phone", func(r *UpsertProfileRequest) { r.ContactPhone = "12345" }},
		{"lettered phone", "contact_phone", func(r *UpsertProfileRequest) { r.ContactPhone = "11 9876x4321" }},
		{"bad value", "project_value", func(r *UpsertProfileRequest) { r.ProjectValue = "muito" }},
		{"negative value", "project_value", func(r *UpsertProfileRequest) { r.ProjectValue = "-5" }},
		{"bad date", "meeting_date", func(r *UpsertProfileRequest) { r.MeetingDate = "ontem" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			req := fullRequest()
			tt.edit(&req)

			_, _, err := svc.Upsert(context.Background(), edu("joana"), req)
			v, ok := core.AsValidationError(err)
			if !ok || !v.Has(tt.field) {
				t.Fatalf("err = %v, want %q invalid", err, tt.field)
			}
			if len(repo.rows) != 0 {
				t.Error("invalid profile written")
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"(11) 3456-7890", "1134567890", true},
		{"+55.11.98765.4321", "5511987654321", true},
		{"123456789", "", false},
		{"12345678901234", "", false},
		{"11/3456-7890", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizePhone(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizePhone(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Get(context.Background(), edu("nobody")); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}
