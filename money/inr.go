// Package money formats amounts for display in Indian Rupees.
package money

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	indian = message.NewPrinter(language.MustParse("en-IN"))
	rupee  = indian.Sprint(currency.Symbol(currency.INR))
)

// FormatINR renders v the way the en-IN locale does, with no fraction
// digits: 1000000 -> "₹10,00,000". Halves round away from zero.
func FormatINR(v float64) string {
	switch {
	case math.IsNaN(v):
		return rupee + "NaN"
	case math.IsInf(v, 1):
		return rupee + "∞"
	case math.IsInf(v, -1):
		return "-" + rupee + "∞"
	}

	// round before formatting; the number package rounds half to even
	rounded := math.Round(v)
	amount := indian.Sprint(number.Decimal(math.Abs(rounded), number.MaxFractionDigits(0)))
	if rounded < 0 {
		return "-" + rupee + amount
	}
	return rupee + amount
}
