package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestRoundShare(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"already two places", "10.25", "10.25"},
		{"half rounds up", "10.005", "10.01"},
		{"below half rounds down", "10.004", "10.00"},
		{"negative half rounds away from zero", "-10.005", "-10.01"},
		{"long fraction", "3.3333333", "3.33"},
		{"integer untouched", "300000", "300000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundShare(dec(t, tt.amount))
			if !got.Equal(dec(t, tt.expected)) {
				t.Errorf("RoundShare(%s) = %s, expected %s", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitPrice string
		expected  string
	}{
		{"single unit", 1, "300000", "300000"},
		{"multiple units", 3, "12.50", "37.50"},
		{"rounding applied", 3, "0.333", "1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.quantity, dec(t, tt.unitPrice))
			if !got.Equal(dec(t, tt.expected)) {
				t.Errorf("LineTotal(%d, %s) = %s, expected %s",
					tt.quantity, tt.unitPrice, got, tt.expected)
			}
		})
	}
}

func TestApplyTax(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		tax      string
		expected string
	}{
		{"ten percent", "300000", "10", "330000"},
		{"eight percent", "100", "8", "108"},
		{"zero tax is identity", "15", "0", "15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyTax(dec(t, tt.amount), dec(t, tt.tax))
			if !got.Equal(dec(t, tt.expected)) {
				t.Errorf("ApplyTax(%s, %s) = %s, expected %s",
					tt.amount, tt.tax, got, tt.expected)
			}
		})
	}

	t.Run("result stays unrounded", func(t *testing.T) {
		// 10.01 * 1.075 = 10.76075; rounding is the caller's job.
		got := ApplyTax(dec(t, "10.01"), dec(t, "7.5"))
		if !got.Equal(dec(t, "10.76075")) {
			t.Errorf("expected unrounded 10.76075, got %s", got)
		}
	})
}
