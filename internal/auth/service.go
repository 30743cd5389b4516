// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

type Service struct {
	gate        *Gate
	tokens      *TokenManager
	revocations RevocationList
	accounts    AccountProvider
	hasher      *core.PasswordHasher
	logger      *slog.Logger
}

func NewService(
	gate *Gate,
	tokens *TokenManager,
	revocations RevocationList,
	accounts AccountProvider,
	hasher *core.PasswordHasher,
	logger *slog.Logger,
) *Service {
	return &Service{
		gate:        gate,
		tokens:      tokens,
		revocations: revocations,
		accounts:    accounts,
		hasher:      hasher,
		logger:      logger,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	sess, err := s.gate.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.logger.InfoContext(ctx, "signed in", "username", sess.Username, "role", sess.Role)

	return &LoginResponse{
		Session: ToSessionResponse(sess),
		Token: TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int(time.Until(sess.ExpiresAt) / time.Second),
			ExpiresAt:   sess.ExpiresAt,
		},
	}, nil
}

// Logout discards the session. Its token stays rejected until it expires.
func (s *Service) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}

	if err := s.revocations.Revoke(ctx, sess.ID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.logger.InfoContext(ctx, "signed out", "username", sess.Username)
	return nil
}

// ResolveSession turns a bearer token back into a session. The account is
// re-read so deactivation and role changes apply to live sessions.
func (s *Service) ResolveSession(
	ctx context.Context,
	token string,
) (*session.Session, error) {
	claims, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("resolve session: %w", core.ErrTokenRevoked)
	}

	acct, err := s.accounts.GetAccount(ctx, claims.Username)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("resolve session: %w", core.ErrTokenRevoked)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if !acct.IsActive {
		return nil, fmt.Errorf("resolve session: inactive account: %w", core.ErrTokenRevoked)
	}

	return &session.Session{
		ID:                 claims.ID,
		Username:           acct.Username,
		Role:               acct.Role,
		MustChangePassword: acct.MustChange,
		ExpiresAt:          claims.ExpiresAt,
	}, nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	sess *session.Session,
	currentPassword, newPassword string,
) error {
	if sess == nil {
		return fmt.Errorf("change password: %w", core.ErrUnauthorized)
	}

	v := core.NewValidationError()
	core.ValidatePassword(v, "new_password", newPassword)
	if !v.Has("new_password") && currentPassword == newPassword {
		v.Add("new_password", "new password must differ from the current one")
	}
	if err := v.OrNil(); err != nil {
		return err
	}

	acct, err := s.accounts.GetAccount(ctx, sess.Username)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if !s.hasher.Verify(currentPassword, acct.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return s.accounts.ChangePassword(ctx, sess.Username, hash)
}

func ToSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		Username:           s.Username,
		Role:               s.Role,
		MustChangePassword: s.MustChangePassword,
		ExpiresAt:          s.ExpiresAt,
	}
}
