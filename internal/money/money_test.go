// AngelaMos | 2026
// money_test.go

package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse_Conventions(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234,56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1234.56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"R$ 1.234,56", "1234.56"},
		{"  R$1234,5  ", "1234.50"},
		{"brl 10", "10.00"},
		{"US$ 99.9", "99.90"},
		{"1.234.567,89", "1234567.89"},
		{"1,234,567.89", "1234567.89"},
		{"0", "0.00"},
		{"0,00", "0.00"},
		{",5", "0.50"},
		{"12.", "12.00"},
		{"1 234,56", "1234.56"},
		{"1\u00a0234,56", "1234.56"},
		{"-10,5", "-10.50"},
		{"-R$ 3,00", "-3.00"},
		{"R$ -3,00", "-3.00"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.in, err)
			}
			want := decimal.RequireFromString(tc.want)
			if !got.Equal(want) {
				t.Errorf("Parse(%q) = %s, want %s", tc.in, got, want)
			}
			if got.StringFixed(Places) != tc.want {
				t.Errorf("Parse(%q) not quantized: %s", tc.in, got)
			}
		})
	}
}

func TestParse_RoundsHalfUp(t *testing.T) {
	cases := map[string]string{
		"2,345":   "2.35",
		"2,344":   "2.34",
		"0.005":   "0.01",
		"0.004":   "0.00",
		"-2,345":  "-2.35",
		"10.9999": "11.00",
	}

	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if Canonical(got) != want {
			t.Errorf("Parse(%q) = %s, want %s", in, Canonical(got), want)
		}
	}
}

func TestParse_Failures(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"R$", ErrEmpty},
		{"abc", ErrMalformed},
		{"1,2,3", ErrMalformed},
		{"1.2.3", ErrMalformed},
		{"12a", ErrMalformed},
		{"1e5", ErrMalformed},
		{"--5", ErrMalformed},
		{".", ErrMalformed},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Parse(tc.in)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tc.in)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tc.in, err, tc.want)
			}
		})
	}
}

func TestParse_ZeroIsNotAFailure(t *testing.T) {
	got, err := Parse("0,00")
	if err != nil {
		t.Fatalf("zero should parse: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("expected zero, got %s", got)
	}
}

func TestParse_IdempotentOnCanonicalOutput(t *testing.T) {
	inputs := []string{
		"1234,56", "1.234,56", "1234.56", "R$ 0,1", "999.999,995", "7", "-1,005",
	}

	for _, in := range inputs {
		first, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		second, err := Parse(Canonical(first))
		if err != nil {
			t.Fatalf("Parse(Canonical(%q)): %v", in, err)
		}
		if !first.Equal(second) {
			t.Errorf("not idempotent for %q: %s vs %s", in, first, second)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	cases := map[string]string{
		"0":          "R$ 0,00",
		"5.5":        "R$ 5,50",
		"999.99":     "R$ 999,99",
		"1234.56":    "R$ 1.234,56",
		"1234567.8":  "R$ 1.234.567,80",
		"-1234.5":    "-R$ 1.234,50",
		"100000":     "R$ 100.000,00",
		"12.345":     "R$ 12,35",
		"123456.004": "R$ 123.456,00",
	}

	for in, want := range cases {
		got := FormatBRL(decimal.RequireFromString(in))
		if got != want {
			t.Errorf("FormatBRL(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatBRL_RoundTripsThroughParse(t *testing.T) {
	d := decimal.RequireFromString("98765.43")
	back, err := Parse(FormatBRL(d))
	if err != nil {
		t.Fatalf("parse formatted: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip mismatch: %s vs %s", back, d)
	}
}
