// AngelaMos | 2026
// entity.go

package activity

import (
	"time"
)

// Kind selects which activity log a repository reads and writes. Meetings
// and contacts share one row shape.
type Kind struct {
	Name  string
	Path  string
	table string
}

var (
	Meetings = Kind{Name: "meeting", Path: "/meetings", table: "app.reunioes_efetivadas"}
	Contacts = Kind{Name: "contact", Path: "/contacts", table: "app.contatos_efetivos"}
)

var Kinds = []Kind{Meetings, Contacts}

func (k Kind) Table() string {
	return k.table
}

type Record struct {
	ID          int64     `db:"id"`
	Owner       string    `db:"owner_username"`
	Date        time.Time `db:"data"`
	Client      string    `db:"cliente"`
	Responsible string    `db:"responsavel"`
	CreatedAt   time.Time `db:"criado_em"`
}
