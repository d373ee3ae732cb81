package domain

import "math"

// LoanParameters is the input set of one computation and the only state
// persisted between sessions. JSON keys follow the stored record format.
type LoanParameters struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"rate"`
	TenureYears       int     `json:"years"`
	PaymentsPerYear   int     `json:"frequency"`
	ProcessingFee     float64 `json:"procFee"`
}

// Installments returns the total number of payments, tenure times frequency.
// A product that does not fit in an int saturates instead of wrapping.
func (p LoanParameters) Installments() int {
	n := float64(p.TenureYears) * float64(p.PaymentsPerYear)
	switch {
	case n >= math.MaxInt:
		return math.MaxInt
	case n <= math.MinInt:
		return math.MinInt
	}
	return p.TenureYears * p.PaymentsPerYear
}

// PeriodicRate returns the interest rate applied per installment.
func (p LoanParameters) PeriodicRate() float64 {
	return (p.AnnualRatePercent / 100) / float64(p.PaymentsPerYear)
}

// InstallmentRecord is one row of the amortization schedule. Monetary
// fields are rounded independently to whole currency units; Exact keeps
// the unrounded values the page formats.
type InstallmentRecord struct {
	Index     int   `json:"installment"`
	Payment   int64 `json:"payment"`
	Interest  int64 `json:"interest"`
	Principal int64 `json:"principal"`
	Balance   int64 `json:"balance"`

	Exact InstallmentAmounts `json:"-"`
}

type InstallmentAmounts struct {
	Payment   float64
	Interest  float64
	Principal float64
	Balance   float64 // clamped at zero
}

// ComputationResult is the summary shown next to the schedule. Totals come
// from the unrounded periodic payment.
type ComputationResult struct {
	PeriodicPayment float64 `json:"periodicPayment"`
	TotalPayment    float64 `json:"totalPayment"`
	TotalInterest   float64 `json:"totalInterest"`
	ProcessingFee   float64 `json:"processingFee"`
	Principal       float64 `json:"principal"`
	TenureYears     int     `json:"tenureYears"`
}

// Calculation bundles one run of the engine: what went in, the summary and
// the schedule. It is never modified after it is built.
type Calculation struct {
	Parameters LoanParameters      `json:"parameters"`
	Result     ComputationResult   `json:"result"`
	Schedule   []InstallmentRecord `json:"schedule"`
}
