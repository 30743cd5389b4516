// AngelaMos | 2026
// auth_test.go

package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/carterperez-dev/yassaka/internal/config"
	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[string]*AccountInfo
	failWith error
	rehashed int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[string]*AccountInfo{}}
}

func (f *fakeAccounts) add(t *testing.T, hasher *core.PasswordHasher, username, password, role string) {
	t.Helper()
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[username] = &AccountInfo{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
}

func (f *fakeAccounts) GetAccount(_ context.Context, username string) (*AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}
	a, ok := f.accounts[username]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) UpdatePasswordHash(_ context.Context, username, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.accounts[username].PasswordHash = hash
	f.rehashed++
	return nil
}

func (f *fakeAccounts) ChangePassword(_ context.Context, username, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a := f.accounts[username]
	a.PasswordHash = hash
	a.MustChange = false
	return nil
}

func (f *fakeAccounts) set(username string, fn func(a *AccountInfo)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.accounts[username])
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (m *memoryRevocations) Revoke(_ context.Context, id string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Time{}
	}
	m.revoked[id] = until
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokens(t *testing.T, expire time.Duration) *TokenManager {
	t.Helper()
	dir := t.TempDir()
	tm, err := NewTokenManager(config.JWTConfig{
		PrivateKeyPath: filepath.Join(dir, "keys", "private.pem"),
		PublicKeyPath:  filepath.Join(dir, "keys", "public.pem"),
		SessionExpire:  expire,
		Issuer:         "yassaka",
		Audience:       "yassaka-panel",
		GenerateKeys:   true,
	})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return tm
}

type fixture struct {
	hasher   *core.PasswordHasher
	accounts *fakeAccounts
	revoked  *memoryRevocations
	gate     *Gate
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		hasher:   core.NewPasswordHasher(core.AlgorithmBcrypt, 4),
		accounts: newFakeAccounts(),
		revoked:  &memoryRevocations{},
	}
	f.gate = NewGate(f.accounts, f.hasher, discardLogger())
	f.service = NewService(f.gate, newTestTokens(t, time.Hour), f.revoked, f.accounts, f.hasher, discardLogger())
	return f
}

func TestAuthenticate_Success(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "Ana.Silva", "password1", session.RoleEducator)
	f.accounts.set("Ana.Silva", func(a *AccountInfo) { a.MustChange = true })

	s, err := f.gate.Authenticate(context.Background(), " Ana.Silva ", "password1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if s.Username != "Ana.Silva" || s.Role != session.RoleEducator || !s.MustChangePassword {
		t.Errorf("unexpected session: %+v", s)
	}
}

func TestAuthenticate_UniformFailure(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "bruno", "password1", session.RoleUser)
	f.accounts.add(t, f.hasher, "carla", "password1", session.RoleUser)
	f.accounts.set("carla", func(a *AccountInfo) { a.IsActive = false })

	cases := []struct{ name, user, pass string }{
		{"unknown account", "nobody", "password1"},
		{"wrong password", "bruno", "password2"},
		{"case differs", "Bruno", "password1"},
		{"inactive with right password", "carla", "password1"},
		{"empty password", "bruno", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := f.gate.Authenticate(context.Background(), tc.user, tc.pass)
			if !errors.Is(err, ErrInvalidCredentials) || s != nil {
				t.Errorf("got (%v, %v), want ErrInvalidCredentials", s, err)
			}
		})
	}
}

func TestAuthenticate_DeactivationBlocksLaterLogins(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "bruno", "password1", session.RoleUser)

	if _, err := f.gate.Authenticate(context.Background(), "bruno", "password1"); err != nil {
		t.Fatalf("first login: %v", err)
	}

	f.accounts.set("bruno", func(a *AccountInfo) { a.IsActive = false })

	if _, err := f.gate.Authenticate(context.Background(), "bruno", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("login after deactivation: got %v", err)
	}
}

func TestAuthenticate_StoreErrorIsNotACredentialFailure(t *testing.T) {
	f := newFixture(t)
	f.accounts.failWith = errors.New("connection refused")

	_, err := f.gate.Authenticate(context.Background(), "bruno", "password1")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want a store error", err)
	}
}

func TestAuthenticate_RehashesWeakHash(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "bruno", "password1", session.RoleUser)

	stronger := core.NewPasswordHasher(core.AlgorithmBcrypt, 5)
	gate := NewGate(f.accounts, stronger, discardLogger())

	if _, err := gate.Authenticate(context.Background(), "bruno", "password1"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if f.accounts.rehashed != 1 {
		t.Fatalf("expected one rehash, got %d", f.accounts.rehashed)
	}

	cost, err := bcrypt.Cost([]byte(f.accounts.accounts["bruno"].PasswordHash))
	if err != nil || cost != 5 {
		t.Errorf("cost = %d (%v), want 5", cost, err)
	}

	if _, err := gate.Authenticate(context.Background(), "bruno", "password1"); err != nil {
		t.Fatalf("second login: %v", err)
	}
	if f.accounts.rehashed != 1 {
		t.Error("an up-to-date hash should not be rewritten")
	}
}

func TestTokens_RoundTrip(t *testing.T) {
	tm := newTestTokens(t, time.Hour)
	s := &session.Session{Username: "ana", Role: session.RoleAdmin}

	token, err := tm.Issue(s)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if s.ID == "" || s.ExpiresAt.IsZero() {
		t.Fatal("issue should assign an id and expiry")
	}

	claims, err := tm.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ID != s.ID || claims.Username != "ana" || claims.Role != session.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(s.ExpiresAt) {
		t.Errorf("expiry = %v, want %v", claims.ExpiresAt, s.ExpiresAt)
	}
	if tm.KeyID() == "" {
		t.Error("key id should be set")
	}
}

func TestTokens_Rejections(t *testing.T) {
	tm := newTestTokens(t, time.Hour)
	token, err := tm.Issue(&session.Session{Username: "ana", Role: session.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	other := newTestTokens(t, time.Hour)

	for name, tok := range map[string]string{
		"garbage":   "not-a-token",
		"tampered":  tampered,
		"other key": mustIssue(t, other),
	} {
		if _, err := tm.Verify(context.Background(), tok); !errors.Is(err, core.ErrTokenInvalid) {
			t.Errorf("%s: got %v, want ErrTokenInvalid", name, err)
		}
	}

	expired := newTestTokens(t, -time.Minute)
	tok := mustIssue(t, expired)
	_, err = expired.Verify(context.Background(), tok)
	if !errors.Is(err, core.ErrTokenExpired) && !errors.Is(err, core.ErrTokenInvalid) {
		t.Errorf("expired: got %v", err)
	}
}

func mustIssue(t *testing.T, tm *TokenManager) string {
	t.Helper()
	tok, err := tm.Issue(&session.Session{Username: "ana", Role: session.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func TestService_LoginResolveLogout(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "bruno", "password1", session.RoleUser)
	ctx := context.Background()

	resp, err := f.service.Login(ctx, LoginRequest{Username: "bruno", Password: "password1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token.TokenType != "Bearer" || resp.Token.AccessToken == "" || resp.Token.ExpiresIn <= 0 {
		t.Errorf("unexpected token: %+v", resp.Token)
	}

	s, err := f.service.ResolveSession(ctx, resp.Token.AccessToken)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Username != "bruno" || s.Role != session.RoleUser || s.ID == "" {
		t.Errorf("unexpected session: %+v", s)
	}

	f.accounts.set("bruno", func(a *AccountInfo) { a.Role = session.RoleAdmin })
	s, err = f.service.ResolveSession(ctx, resp.Token.AccessToken)
	if err != nil || !s.IsAdmin() {
		t.Errorf("role change should apply to the live session: %+v %v", s, err)
	}

	if err := f.service.Logout(ctx, s); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.service.ResolveSession(ctx, resp.Token.AccessToken); !errors.Is(err, core.ErrTokenRevoked) {
		t.Errorf("after logout: got %v, want ErrTokenRevoked", err)
	}
}

func TestService_DeactivationEndsLiveSession(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "bruno", "password1", session.RoleUser)
	ctx := context.Background()

	resp, err := f.service.Login(ctx, LoginRequest{Username: "bruno", Password: "password1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	f.accounts.set("bruno", func(a *AccountInfo) { a.IsActive = false })

	if _, err := f.service.ResolveSession(ctx, resp.Token.AccessToken); !errors.Is(err, core.ErrTokenRevoked) {
		t.Errorf("got %v, want ErrTokenRevoked", err)
	}
}

func TestService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "bruno", "password1", session.RoleUser)
	f.accounts.set("bruno", func(a *AccountInfo) { a.MustChange = true })
	ctx := context.Background()
	s := &session.Session{Username: "bruno", Role: session.RoleUser}

	if err := f.service.ChangePassword(ctx, s, "wrong-pass", "password2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong current password: got %v", err)
	}
	if err := f.service.ChangePassword(ctx, s, "password1", "password1"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("unchanged password: got %v", err)
	}

	for _, weak := range []string{"short", strings.Repeat("é", 40)} {
		err := f.service.ChangePassword(ctx, s, "password1", weak)
		if v, ok := core.AsValidationError(err); !ok || !v.Has("new_password") {
			t.Errorf("ChangePassword(%q): got %v, want new_password validation error", weak, err)
		}
	}

	if err := f.service.ChangePassword(ctx, s, "password1", "password2"); err != nil {
		t.Fatalf("change: %v", err)
	}

	acct := f.accounts.accounts["bruno"]
	if acct.MustChange {
		t.Error("change should clear the forced-change flag")
	}
	if _, err := f.gate.Authenticate(ctx, "bruno", "password2"); err != nil {
		t.Errorf("new password should work: %v", err)
	}
	if _, err := f.gate.Authenticate(ctx, "bruno", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password should stop working")
	}
}
