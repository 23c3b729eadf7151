// Package format holds presentation helpers for Indonesian locale output:
// Rupiah amounts and receipt timestamps. Pure string formatting, no state.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rupiah formats a whole-Rupiah amount the way id-ID currency formatting
// does: "Rp" prefix, dot as thousands separator, no minor units.
// Fractional parts are truncated; Rupiah amounts in this system are whole.
func Rupiah(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	digits := amount.Abs().Truncate(0).String()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// DateTime formats a timestamp for receipts: dd/mm/yyyy hh:mm, matching the
// id-ID short date convention.
func DateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
