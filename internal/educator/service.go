// AngelaMos | 2026
// service.go

package educator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/money"
	"github.com/carterperez-dev/yassaka/internal/session"
)

const (
	maxCompanyLen = 200
	maxNameLen    = 150
	minPhone      = 10
	maxPhone      = 13
)

var dateLayouts = []string{time.DateOnly, "02/01/2006"}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Upsert saves the caller's profile, overwriting the existing one.
func (s *Service) Upsert(
	ctx context.Context,
	sess *session.Session,
	req UpsertProfileRequest,
) (*Profile, bool, error) {
	if sess == nil {
		return nil, false, fmt.Errorf("upsert profile: %w", core.ErrUnauthorized)
	}

	p, err := buildProfile(req)
	if err != nil {
		return nil, false, err
	}
	p.Owner = sess.Username

	created, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, false, err
	}

	s.logger.InfoContext(ctx, "educator profile saved",
		"owner", p.Owner,
		"id", p.ID,
		"created", created,
	)
	return p, created, nil
}

func (s *Service) Get(ctx context.Context, sess *session.Session) (*Profile, error) {
	if sess == nil {
		return nil, fmt.Errorf("get profile: %w", core.ErrUnauthorized)
	}
	return s.repo.GetLatest(ctx, sess.Username)
}

func (s *Service) ListVisible(
	ctx context.Context,
	sess *session.Session,
	limit int,
) ([]Profile, error) {
	if sess == nil {
		return nil, fmt.Errorf("list profiles: %w", core.ErrUnauthorized)
	}
	return s.repo.ListVisible(ctx, sess.Scope(), limit)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func buildProfile(req UpsertProfileRequest) (*Profile, error) {
	v := core.NewValidationError()
	p := &Profile{}

	p.Company = strings.TrimSpace(req.Company)
	switch {
	case p.Company == "":
		v.Add("company", "company is required")
	case utf8.RuneCountInString(p.Company) > maxCompanyLen:
		v.Add("company", fmt.Sprintf("company must be at most %d characters", maxCompanyLen))
	}

	p.EducatorName = strings.TrimSpace(req.EducatorName)
	switch {
	case p.EducatorName == "":
		v.Add("educator_name", "educator name is required")
	case utf8.RuneCountInString(p.EducatorName) > maxNameLen:
		v.Add("educator_name", fmt.Sprintf("educator name must be at most %d characters", maxNameLen))
	}

	state, ok := NormalizeState(req.State)
	if !ok {
		v.Add("state", "state must be two letters, e.g. SP")
	}
	p.State = state

	if raw := strings.TrimSpace(req.MeetingDate); raw != "" {
		d, ok := parseDate(raw)
		if !ok {
			v.Add("meeting_date", "meeting date must look like 2006-01-02 or 02/01/2006")
		}
		p.MeetingDate = &d
	}

	if raw := strings.TrimSpace(req.ContactPhone); raw != "" {
		phone, ok := NormalizePhone(raw)
		if !ok {
			v.Add("contact_phone", fmt.Sprintf("phone must have %d to %d digits", minPhone, maxPhone))
		}
		p.ContactPhone = &phone
	}

	if raw := strings.TrimSpace(req.ProjectValue); raw != "" {
		value, err := money.Parse(raw)
		switch {
		case err != nil:
			v.Add("project_value", "project value must be a monetary amount such as 1.234,56")
		case value.IsNegative():
			v.Add("project_value", "project value must not be negative")
		}
		p.ProjectValue = decimal.NewNullDecimal(value)
	}

	contactName := strings.TrimSpace(req.ContactName)
	if utf8.RuneCountInString(contactName) > maxNameLen {
		v.Add("contact_name", fmt.Sprintf("contact name must be at most %d characters", maxNameLen))
	}
	p.ContactName = optional(contactName)
	p.Project = optional(strings.TrimSpace(req.Project))
	p.Certificates = optional(strings.TrimSpace(req.Certificates))

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

// NormalizePhone strips common punctuation and returns the bare digits.
func NormalizePhone(s string) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune("+()-. ", r):
		default:
			return "", false
		}
	}

	digits := b.String()
	if len(digits) < minPhone || len(digits) > maxPhone {
		return "", false
	}
	return digits, true
}

// NormalizeState accepts exactly two ASCII letters and upper-cases them.
func NormalizeState(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return "", false
	}
	for i := range len(s) {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return "", false
		}
	}
	return strings.ToUpper(s), true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
