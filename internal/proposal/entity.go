// AngelaMos | 2026
// entity.go

package proposal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Proposal struct {
	ID          int64           `db:"id"`
	Client      string          `db:"cliente"`
	Product     string          `db:"produto"`
	Value       decimal.Decimal `db:"valor"`
	Classes     int             `db:"turmas"`
	Head        string          `db:"head_responsavel"`
	Temperature Temperature     `db:"qmf"`
	CreatedAt   time.Time       `db:"criado_em"`
}

// Temperature is the sales likelihood tag, stored as a one letter code.
type Temperature string

const (
	Hot  Temperature = "Q"
	Warm Temperature = "M"
	Cold Temperature = "F"
)

var Temperatures = []Temperature{Hot, Warm, Cold}

var temperatureAliases = map[string]Temperature{
	"q": Hot, "hot": Hot, "quente": Hot,
	"m": Warm, "warm": Warm, "morna": Warm, "morno": Warm,
	"f": Cold, "cold": Cold, "fria": Cold, "frio": Cold,
}

// ParseTemperature accepts the stored code or an English or Portuguese label.
func ParseTemperature(s string) (Temperature, bool) {
	t, ok := temperatureAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

func (t Temperature) Valid() bool {
	return t == Hot || t == Warm || t == Cold
}

func (t Temperature) Label() string {
	switch t {
	case Hot:
		return "Hot"
	case Warm:
		return "Warm"
	case Cold:
		return "Cold"
	}
	return ""
}

func (t Temperature) LocalLabel() string {
	switch t {
	case Hot:
		return "Quente"
	case Warm:
		return "Morna"
	case Cold:
		return "Fria"
	}
	return ""
}

// TagTotal aggregates proposals sharing a temperature tag.
type TagTotal struct {
	Temperature Temperature     `db:"qmf"`
	Count       int64           `db:"total"`
	Value       decimal.Decimal `db:"valor"`
}
