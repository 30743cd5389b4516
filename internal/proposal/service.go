// AngelaMos | 2026
// service.go

package proposal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/money"
	"github.com/carterperez-dev/yassaka/internal/session"
)

const (
	maxClientLen  = 150
	maxProductLen = 120
	maxHeadLen    = 100
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create records a proposal. The responsible head defaults to the caller;
// only admins may record one on behalf of another head. Nothing is written
// unless every field is valid.
func (s *Service) Create(
	ctx context.Context,
	sess *session.Session,
	req CreateProposalRequest,
) (*Proposal, error) {
	if sess == nil {
		return nil, fmt.Errorf("create proposal: %w", core.ErrUnauthorized)
	}

	p, err := buildProposal(sess, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "proposal recorded",
		"id", p.ID,
		"head", p.Head,
		"temperature", p.Temperature,
	)

	return p, nil
}

// ListVisible returns the newest proposals the caller may see: every
// proposal for admins, only their own for everyone else.
func (s *Service) ListVisible(
	ctx context.Context,
	sess *session.Session,
	limit int,
) ([]Proposal, error) {
	if sess == nil {
		return nil, fmt.Errorf("list proposals: %w", core.ErrUnauthorized)
	}
	return s.repo.ListVisible(ctx, sess.Scope(), limit)
}

func (s *Service) TotalsByTemperature(ctx context.Context) ([]TagTotal, error) {
	return s.repo.TotalsByTemperature(ctx)
}

func buildProposal(sess *session.Session, req CreateProposalRequest) (*Proposal, error) {
	v := core.NewValidationError()

	head := strings.TrimSpace(req.Head)
	if head == "" {
		head = sess.Username
	}
	switch {
	case utf8.RuneCountInString(head) > maxHeadLen:
		v.Add("head", fmt.Sprintf("head must be at most %d characters", maxHeadLen))
	case !sess.Scope().Allows(head):
		v.Add("head", "only admins may record a proposal for another head")
	}

	client := strings.TrimSpace(req.Client)
	switch {
	case client == "":
		v.Add("client", "client is required")
	case utf8.RuneCountInString(client) > maxClientLen:
		v.Add("client", fmt.Sprintf("client must be at most %d characters", maxClientLen))
	}

	product := strings.TrimSpace(req.Product)
	switch {
	case product == "":
		v.Add("product", "product is required")
	case utf8.RuneCountInString(product) > maxProductLen:
		v.Add("product", fmt.Sprintf("product must be at most %d characters", maxProductLen))
	}

	value, err := money.Parse(req.Value)
	switch {
	case err != nil:
		v.Add("value", "value must be a monetary amount such as 1.234,56")
	case value.IsNegative():
		v.Add("value", "value must not be negative")
	}

	if req.Classes < 1 {
		v.Add("classes", "classes must be at least 1")
	}

	temp, ok := ParseTemperature(req.Temperature)
	if !ok {
		v.Add("temperature", "temperature must be one of Q, M, F (hot, warm, cold)")
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return &Proposal{
		Client:      client,
		Product:     product,
		Value:       value,
		Classes:     req.Classes,
		Temperature: temp,
		Head:        head,
	}, nil
}
