// AngelaMos | 2026
// entity.go

package account

import (
	"time"

	"github.com/carterperez-dev/yassaka/internal/session"
)

// Account is a row of app.usuarios. Accounts are deactivated, never deleted.
type Account struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"senha_hash"`
	Role         string    `db:"role"`
	IsActive     bool      `db:"is_active"`
	MustChange   bool      `db:"must_change"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (a *Account) IsAdmin() bool {
	return a.Role == session.RoleAdmin
}

// RoleCount is the number of active accounts holding a role.
type RoleCount struct {
	Role  string `db:"role"  json:"role"`
	Count int    `db:"total" json:"count"`
}
