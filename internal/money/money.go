// AngelaMos | 2026
// money.go

// Package money parses and formats monetary amounts typed by people in either
// the Brazilian (1.234,56) or the international (1,234.56) convention.
// Amounts are exact decimals quantized to cents.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const Places = 2

var (
	ErrEmpty     = errors.New("empty amount")
	ErrMalformed = errors.New("malformed amount")
)

// ParseError is returned for every input Parse rejects. It unwraps to
// ErrEmpty or ErrMalformed.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse amount %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var currencyMarkers = []string{"R$", "BRL", "US$", "$"}

var plainNumber = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// Parse converts text to a decimal rounded half-up to two places.
//
// When both ',' and '.' appear, the one that occurs last is the decimal
// separator and the other is a thousands separator. A lone ',' or a lone
// '.' is always the decimal separator.
func Parse(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, &ParseError{Input: text, Err: ErrEmpty}
	}

	negative := false
	if s[0] == '-' || s[0] == '+' {
		negative = s[0] == '-'
		s = strings.TrimSpace(s[1:])
	}

	s = stripCurrency(s)

	if !negative && s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if s == "" {
		return decimal.Zero, &ParseError{Input: text, Err: ErrEmpty}
	}

	s = normalizeSeparators(s)

	if !plainNumber.MatchString(s) {
		return decimal.Zero, &ParseError{Input: text, Err: ErrMalformed}
	}

	if negative {
		s = "-" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ParseError{Input: text, Err: ErrMalformed}
	}

	return Quantize(d), nil
}

// Quantize rounds d half-up (away from zero) to two places.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Canonical renders d the way Parse reads it back: dot separator, two places.
func Canonical(d decimal.Decimal) string {
	return Quantize(d).StringFixed(Places)
}

// FormatBRL renders d as "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	q := Quantize(d)
	sign := ""
	if q.IsNegative() {
		sign = "-"
		q = q.Neg()
	}

	fixed := q.StringFixed(Places)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	return sign + "R$ " + groupThousands(intPart, '.') + "," + fracPart
}

func stripCurrency(s string) string {
	upper := strings.ToUpper(s)
	for _, marker := range currencyMarkers {
		if strings.HasPrefix(upper, marker) {
			return strings.TrimSpace(s[len(marker):])
		}
	}
	return s
}

func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.ReplaceAll(s, ",", ".")
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		return strings.ReplaceAll(s, ",", ".")
	default:
		return s
	}
}

func groupThousands(digits string, sep byte) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
