// AngelaMos | 2026
// service.go

package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

const (
	maxClientLen      = 200
	maxResponsibleLen = 150
)

// dateLayouts are tried in order. The second is the day-first form used by
// the panel's date pickers.
var dateLayouts = []string{DateLayout, "02/01/2006"}

type Service struct {
	kind   Kind
	repo   Repository
	logger *slog.Logger
}

func NewService(kind Kind, repo Repository, logger *slog.Logger) *Service {
	return &Service{
		kind:   kind,
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Kind() Kind {
	return s.kind
}

func (s *Service) Create(
	ctx context.Context,
	sess *session.Session,
	req CreateRecordRequest,
) (*Record, error) {
	if sess == nil {
		return nil, fmt.Errorf("create %s: %w", s.kind.Name, core.ErrUnauthorized)
	}

	rec, err := buildRecord(req)
	if err != nil {
		return nil, err
	}
	rec.Owner = sess.Username

	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, s.kind.Name+" recorded", "id", rec.ID, "owner", rec.Owner)
	return rec, nil
}

func (s *Service) ListVisible(
	ctx context.Context,
	sess *session.Session,
	limit int,
) ([]Record, error) {
	if sess == nil {
		return nil, fmt.Errorf("list %ss: %w", s.kind.Name, core.ErrUnauthorized)
	}
	return s.repo.ListVisible(ctx, sess.Scope(), limit)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func buildRecord(req CreateRecordRequest) (*Record, error) {
	v := core.NewValidationError()

	date, ok := ParseDate(req.Date)
	if !ok {
		v.Add("date", "date must look like 2006-01-02 or 02/01/2006")
	}

	client := strings.TrimSpace(req.Client)
	switch {
	case client == "":
		v.Add("client", "client is required")
	case utf8.RuneCountInString(client) > maxClientLen:
		v.Add("client", fmt.Sprintf("client must be at most %d characters", maxClientLen))
	}

	responsible := strings.TrimSpace(req.Responsible)
	switch {
	case responsible == "":
		v.Add("responsible", "responsible is required")
	case utf8.RuneCountInString(responsible) > maxResponsibleLen:
		v.Add("responsible", fmt.Sprintf("responsible must be at most %d characters", maxResponsibleLen))
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return &Record{
		Date:        date,
		Client:      client,
		Responsible: responsible,
	}, nil
}

// ParseDate reads a calendar date with no time of day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
