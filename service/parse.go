package service

import (
	"math"
	"regexp"
	"strconv"

	"emi-calculator/domain"
)

var (
	leadingFloat = regexp.MustCompile(`^[\t\n\v\f\r ]*[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
	leadingInt   = regexp.MustCompile(`^[\t\n\v\f\r ]*[+-]?\d+`)
)

// ParseParameters coerces raw form values into loan parameters. A field
// that is missing or not numeric becomes 0; frequency falls back to 12.
func ParseParameters(in domain.RawInput) domain.LoanParameters {
	return domain.LoanParameters{
		Principal:         parseFloatOr(in.Principal, 0),
		AnnualRatePercent: parseFloatOr(in.Rate, 0),
		TenureYears:       parseIntOr(in.Years, 0),
		PaymentsPerYear:   parseIntOr(in.Frequency, DefaultPaymentsPerYear),
		ProcessingFee:     parseFloatOr(in.ProcFee, 0),
	}
}

// parseFloatOr reads the longest numeric prefix of s. Zero and unparsable
// input both yield fallback.
func parseFloatOr(s string, fallback float64) float64 {
	m := leadingFloat.FindString(s)
	if m == "" {
		return fallback
	}

	v, err := strconv.ParseFloat(trimSpaceLeft(m), 64)
	if err != nil {
		// out of range still carries a usable ±Inf or 0
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return fallback
		}
	}
	if v == 0 || math.IsNaN(v) {
		return fallback
	}
	return v
}

func parseIntOr(s string, fallback int) int {
	m := leadingInt.FindString(s)
	if m == "" {
		return fallback
	}

	v, err := strconv.Atoi(trimSpaceLeft(m))
	if err != nil {
		// too many digits: Atoi already clamped v to MaxInt or MinInt
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return fallback
		}
	}
	if v == 0 {
		return fallback
	}
	return v
}

func trimSpaceLeft(s string) string {
	for i, c := range s {
		switch c {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			continue
		}
		return s[i:]
	}
	return ""
}
