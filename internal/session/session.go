// AngelaMos | 2026
// session.go

// Package session holds the identity produced by a successful login and the
// row-visibility rule derived from it.
package session

import (
	"context"
	"strings"
	"time"
)

const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleEducator = "educador"
)

var Roles = []string{RoleUser, RoleAdmin, RoleEducator}

// ParseRole accepts the stored codes plus the English alias "educator".
func ParseRole(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleEducator, "educator":
		return RoleEducator, true
	}
	return "", false
}

// Session is created at login and discarded at logout. It is never shared
// between callers.
type Session struct {
	ID                 string
	Username           string
	Role               string
	MustChangePassword bool
	ExpiresAt          time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

func (s *Session) HasRole(roles ...string) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// Scope is the visibility rule for owned rows: admins see every owner,
// everyone else only their own rows.
func (s *Session) Scope() Scope {
	if s.IsAdmin() {
		return Scope{all: true}
	}
	return OwnerScope(s.Username)
}

// OwnerScope restricts to one owner regardless of role.
func (s *Session) OwnerScope() Scope {
	return OwnerScope(s.Username)
}

type Scope struct {
	all   bool
	owner string
}

func OwnerScope(owner string) Scope {
	return Scope{owner: owner}
}

// OwnerArg is the bind value for `($1::text IS NULL OR owner = $1)`.
func (sc Scope) OwnerArg() *string {
	if sc.all {
		return nil
	}
	owner := sc.owner
	return &owner
}

func (sc Scope) Allows(owner string) bool {
	return sc.all || sc.owner == owner
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
