// AngelaMos | 2026
// gate.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

// ErrInvalidCredentials covers an unknown account, an inactive account and a
// wrong password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AccountInfo struct {
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	MustChange   bool
}

type AccountProvider interface {
	GetAccount(ctx context.Context, username string) (*AccountInfo, error)
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
	ChangePassword(ctx context.Context, username, passwordHash string) error
}

type Gate struct {
	accounts AccountProvider
	hasher   *core.PasswordHasher
	logger   *slog.Logger
}

func NewGate(
	accounts AccountProvider,
	hasher *core.PasswordHasher,
	logger *slog.Logger,
) *Gate {
	return &Gate{
		accounts: accounts,
		hasher:   hasher,
		logger:   logger,
	}
}

// Authenticate checks a username and password and returns a new session.
// A missing account still pays for one hash verification.
func (g *Gate) Authenticate(
	ctx context.Context,
	username, password string,
) (*session.Session, error) {
	username = strings.TrimSpace(username)

	acct, err := g.accounts.GetAccount(ctx, username)
	if errors.Is(err, core.ErrNotFound) {
		g.hasher.VerifyTimingSafe(password, nil)
		g.logger.DebugContext(ctx, "login rejected", "reason", "unknown account")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	matched := g.hasher.VerifyTimingSafe(password, &acct.PasswordHash)

	if !acct.IsActive {
		g.logger.DebugContext(ctx, "login rejected", "reason", "inactive account")
		return nil, ErrInvalidCredentials
	}
	if !matched {
		g.logger.DebugContext(ctx, "login rejected", "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	if g.hasher.NeedsRehash(acct.PasswordHash) {
		g.rehash(ctx, acct.Username, password)
	}

	return &session.Session{
		Username:           acct.Username,
		Role:               acct.Role,
		MustChangePassword: acct.MustChange,
	}, nil
}

func (g *Gate) rehash(ctx context.Context, username, password string) {
	hash, err := g.hasher.Hash(password)
	if err == nil {
		err = g.accounts.UpdatePasswordHash(ctx, username, hash)
	}
	if err != nil {
		g.logger.WarnContext(ctx, "password rehash failed", "username", username, "error", err)
	}
}
