// AngelaMos | 2026
// entity.go

package educator

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the single self-service record an educator keeps. Repeated
// submissions overwrite it.
type Profile struct {
	ID           int64               `db:"id"`
	Owner        string              `db:"owner_username"`
	Company      string              `db:"empresa"`
	MeetingDate  *time.Time          `db:"data_reuniao"`
	ContactName  *string             `db:"contato_nome"`
	ContactPhone *string             `db:"contato_telefone"`
	Project      *string             `db:"projeto"`
	ProjectValue decimal.NullDecimal `db:"valor_projeto"`
	Certificates *string             `db:"atestados"`
	State        string              `db:"estado"`
	EducatorName string              `db:"nome_educador"`
	CreatedAt    time.Time           `db:"criado_em"`
	UpdatedAt    time.Time           `db:"atualizado_em"`
}
