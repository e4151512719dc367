//go:build unit

package output

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	v := decimal.NewFromFloat(1234.567)
	if got, want := FormatCurrency(v, "USD"), "1234.57 USD"; got != want {
		t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
	}
	if got, want := FormatCurrency(v, ""), "1234.57"; got != want {
		t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
	}
}

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	if got, want := FormatPercentage(v), "12.35%"; got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}

func TestRelativeError(t *testing.T) {
	got := RelativeError(decimal.NewFromInt(200), decimal.NewFromInt(1))
	if !got.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("RelativeError = %s, want 0.5", got)
	}
	if !RelativeError(decimal.Zero, decimal.NewFromInt(1)).IsZero() {
		t.Error("RelativeError of a zero price should be zero")
	}
}

func TestIntToString(t *testing.T) {
	if got, want := intToString(42), "42"; got != want {
		t.Errorf("intToString(42) = %q, want %q", got, want)
	}
}
