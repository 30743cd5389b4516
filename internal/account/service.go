// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/carterperez-dev/yassaka/internal/auth"
	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

const maxUsernameLen = 100

type Service struct {
	repo   Repository
	hasher *core.PasswordHasher
	logger *slog.Logger
}

func NewService(
	repo Repository,
	hasher *core.PasswordHasher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) GetAccount(
	ctx context.Context,
	username string,
) (*auth.AccountInfo, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return &auth.AccountInfo{
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		IsActive:     a.IsActive,
		MustChange:   a.MustChange,
	}, nil
}

func (s *Service) UpdatePasswordHash(
	ctx context.Context,
	username, passwordHash string,
) error {
	return s.repo.UpdateHash(ctx, username, passwordHash)
}

// ChangePassword stores a hash chosen by the account owner and clears the
// forced-change flag.
func (s *Service) ChangePassword(
	ctx context.Context,
	username, passwordHash string,
) error {
	if err := s.repo.SetPassword(ctx, username, passwordHash, false); err != nil {
		return err
	}

	s.logger.Info("password changed", "username", username)
	return nil
}

func (s *Service) Create(
	ctx context.Context,
	req CreateAccountRequest,
) (*Account, error) {
	v := core.NewValidationError()

	username := strings.TrimSpace(req.Username)
	validateUsername(v, "username", username)

	password := strings.TrimSpace(req.Password)
	core.ValidatePassword(v, "password", password)

	role, ok := session.ParseRole(req.Role)
	if !ok {
		v.Add("role", "role must be one of: user, admin, educador")
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	a := &Account{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("account created", "username", a.Username, "role", a.Role)
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

func (s *Service) SetActive(
	ctx context.Context,
	actor *session.Session,
	username string,
	active bool,
) (*Account, error) {
	if !active && actor != nil && actor.Username == username {
		return nil, fmt.Errorf("deactivate own account: %w", core.ErrForbidden)
	}

	if err := s.repo.SetActive(ctx, username, active); err != nil {
		return nil, err
	}

	s.logger.Info("account activation changed", "username", username, "active", active)
	return s.repo.GetByUsername(ctx, username)
}

// ResetPassword sets a new password on behalf of the owner, who must then
// choose their own at next sign-in.
func (s *Service) ResetPassword(
	ctx context.Context,
	username, password string,
) error {
	v := core.NewValidationError()
	password = strings.TrimSpace(password)
	core.ValidatePassword(v, "password", password)
	if err := v.OrNil(); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	if err := s.repo.SetPassword(ctx, username, hash, true); err != nil {
		return err
	}

	s.logger.Info("password reset", "username", username)
	return nil
}

// Rename changes a username and every row it owns.
func (s *Service) Rename(
	ctx context.Context,
	actor *session.Session,
	from, to string,
) (*Account, error) {
	v := core.NewValidationError()
	to = strings.TrimSpace(to)
	validateUsername(v, "username", to)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if actor != nil && actor.Username == from {
		return nil, fmt.Errorf("rename own account: %w", core.ErrForbidden)
	}

	if from != to {
		if err := s.repo.Rename(ctx, from, to); err != nil {
			return nil, err
		}
		s.logger.Info("account renamed", "from", from, "to", to)
	}

	return s.repo.GetByUsername(ctx, to)
}

func (s *Service) ChangeRole(
	ctx context.Context,
	actor *session.Session,
	username, roleText string,
) (*Account, error) {
	role, ok := session.ParseRole(roleText)
	if !ok {
		v := core.NewValidationError()
		v.Add("role", "role must be one of: user, admin, educador")
		return nil, v
	}

	if actor != nil && actor.Username == username && role != session.RoleAdmin {
		return nil, fmt.Errorf("demote own account: %w", core.ErrForbidden)
	}

	if err := s.repo.SetRole(ctx, username, role); err != nil {
		return nil, err
	}

	s.logger.Info("account role changed", "username", username, "role", role)
	return s.repo.GetByUsername(ctx, username)
}

// EnsureAdmin creates the bootstrap admin when no active admin exists. It
// reports whether an account was created.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	username, password string,
) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	exists, err := s.repo.AdminExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = s.Create(ctx, CreateAccountRequest{
		Username: username,
		Password: password,
		Role:     session.RoleAdmin,
	})
	if errors.Is(err, core.ErrDuplicateKey) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}

	return true, nil
}

func (s *Service) CountActiveByRole(ctx context.Context) ([]RoleCount, error) {
	return s.repo.CountActiveByRole(ctx)
}

func validateUsername(v *core.ValidationError, field, username string) {
	switch {
	case username == "":
		v.Add(field, field+" is required")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		v.Add(field, fmt.Sprintf("%s must be at most %d characters", field, maxUsernameLen))
	case strings.IndexFunc(username, unicode.IsSpace) >= 0:
		v.Add(field, field+" must not contain spaces")
	}
}

var _ auth.AccountProvider = (*Service)(nil)
