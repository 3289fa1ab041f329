// Package money provides monetary parsing and arithmetic for invoice
// extraction. Amounts are decimal.Decimal throughout; rounding to two
// decimal places happens at component boundaries, intermediate sums keep
// full precision.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used for display formatting. Supplier
// invoices handled by this pipeline are all CAD.
const DefaultCurrency = gomoney.CAD

// Parse converts a money-shaped token from OCR text into a decimal value.
// It tolerates thousands separators ("1,930.50"), a bare leading decimal
// point (".65"), and the trailing-minus negative convention some suppliers
// print on credit memos ("200.00-").
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round2Ptr rounds an optional amount, passing nil through.
func Round2Ptr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}

// Ptr returns a pointer to d. Optional monetary fields are *decimal.Decimal
// with nil meaning "not found".
func Ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// EqualWithinCent reports whether two amounts differ by less than one cent.
func EqualWithinCent(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(decimal.NewFromFloat(0.01))
}

// Display formats an amount as a currency string (e.g. "$1,930.50") using
// the minor-unit representation so no precision is lost in formatting.
func Display(d decimal.Decimal) string {
	cents := d.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
	return gomoney.New(cents, DefaultCurrency).Display()
}
