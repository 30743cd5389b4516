// AngelaMos | 2026
// certificate.go

// Package certificate records the certificates an educator earned per
// month. Each educator only ever sees their own, admins included.
package certificate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

const (
	MonthLayout  = "2006-01"
	maxClientLen = 200
)

var monthLayouts = []string{MonthLayout, time.DateOnly, "01/2006", "02/01/2006"}

type Certificate struct {
	ID        int64     `db:"id"`
	Owner     string    `db:"owner_username"`
	Month     time.Time `db:"mes"`
	Client    string    `db:"cliente"`
	Project   string    `db:"projeto_finalizado"`
	Earned    string    `db:"atestado_conquistado"`
	CreatedAt time.Time `db:"criado_em"`
}

type Repository interface {
	Insert(ctx context.Context, c *Certificate) error
	ListOwned(ctx context.Context, owner string, limit int) ([]Certificate, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, c *Certificate) error {
	query := `
		INSERT INTO app.atestados_educadores
			(owner_username, mes, cliente, projeto_finalizado, atestado_conquistado)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, criado_em`

	err := r.db.GetContext(ctx, c, query,
		c.Owner,
		c.Month,
		c.Client,
		c.Project,
		c.Earned,
	)
	if err != nil {
		return fmt.Errorf("insert certificate: %w", err)
	}

	return nil
}

func (r *repository) ListOwned(
	ctx context.Context,
	owner string,
	limit int,
) ([]Certificate, error) {
	query := `
		SELECT id, owner_username, mes, cliente, projeto_finalizado,
		       atestado_conquistado, criado_em
		FROM app.atestados_educadores
		WHERE owner_username = $1
		ORDER BY id DESC
		LIMIT $2`

	certs := []Certificate{}
	if err := r.db.SelectContext(ctx, &certs, query, owner, limit); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}

	return certs, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM app.atestados_educadores`); err != nil {
		return 0, fmt.Errorf("count certificates: %w", err)
	}
	return n, nil
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(
	ctx context.Context,
	sess *session.Session,
	req CreateCertificateRequest,
) (*Certificate, error) {
	if sess == nil {
		return nil, fmt.Errorf("create certificate: %w", core.ErrUnauthorized)
	}

	v := core.NewValidationError()

	month, ok := ParseMonth(req.Month)
	if !ok {
		v.Add("month", "month must look like 2006-01")
	}

	client := strings.TrimSpace(req.Client)
	switch {
	case client == "":
		v.Add("client", "client is required")
	case utf8.RuneCountInString(client) > maxClientLen:
		v.Add("client", fmt.Sprintf("client must be at most %d characters", maxClientLen))
	}

	project := strings.TrimSpace(req.Project)
	if project == "" {
		v.Add("project", "project is required")
	}

	earned := strings.TrimSpace(req.Earned)
	if earned == "" {
		v.Add("earned", "earned is required")
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	c := &Certificate{
		Owner:   sess.Username,
		Month:   month,
		Client:  client,
		Project: project,
		Earned:  earned,
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "certificate recorded",
		"id", c.ID,
		"owner", c.Owner,
		"month", c.Month.Format(MonthLayout),
	)
	return c, nil
}

// ListOwned ignores the caller's role.
func (s *Service) ListOwned(
	ctx context.Context,
	sess *session.Session,
	limit int,
) ([]Certificate, error) {
	if sess == nil {
		return nil, fmt.Errorf("list certificates: %w", core.ErrUnauthorized)
	}
	return s.repo.ListOwned(ctx, sess.Username, limit)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// ParseMonth reads a month or a full date and returns the first day of
// that month.
func ParseMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range monthLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return FirstOfMonth(d), true
		}
	}
	return time.Time{}, false
}

func FirstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}
