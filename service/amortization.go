package service

import (
	"math"

	"emi-calculator/domain"
)

// roundHalfUp rounds to the nearest whole unit with halves going towards
// positive infinity. Non-finite values have no integer form and become 0.
func roundHalfUp(value float64) int64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return int64(math.Floor(value + 0.5))
}

// ComputePayment returns the periodic installment that amortizes principal
// over tenureYears*paymentsPerYear payments. Inputs are not validated.
func ComputePayment(
	principal float64,
	annualRatePercent float64,
	tenureYears int,
	paymentsPerYear int,
) float64 {
	n := float64(tenureYears) * float64(paymentsPerYear)
	r := (annualRatePercent / 100) / float64(paymentsPerYear)

	if r == 0 {
		// only an empty tenure divides by one; a negative count stays as is
		if n == 0 {
			n = 1
		}
		return principal / n
	}

	growth := math.Pow(1+r, n)
	return (principal * r * growth) / (growth - 1)
}

// BuildSchedule walks the balance down one installment at a time and returns
// at most MaxScheduleRows records in installment order.
func BuildSchedule(
	principal float64,
	periodicRate float64,
	installments int,
	payment float64,
) []domain.InstallmentRecord {
	rows := min(installments, MaxScheduleRows)
	if rows <= 0 {
		return []domain.InstallmentRecord{}
	}

	schedule := make([]domain.InstallmentRecord, 0, rows)
	balance := principal

	for i := 1; i <= rows; i++ {
		interest := balance * periodicRate
		principalPortion := payment - interest
		balance -= principalPortion

		schedule = append(schedule, domain.InstallmentRecord{
			Index:     i,
			Payment:   roundHalfUp(payment),
			Interest:  roundHalfUp(interest),
			Principal: roundHalfUp(principalPortion),
			Balance:   max(0, roundHalfUp(balance)),
			Exact: domain.InstallmentAmounts{
				Payment:   payment,
				Interest:  interest,
				Principal: principalPortion,
				Balance:   math.Max(balance, 0),
			},
		})
	}

	return schedule
}

// ComputeTotals uses the unrounded payment, so the totals can differ from
// the sum of the rounded schedule rows.
func ComputeTotals(
	payment float64,
	installments int,
	processingFee float64,
	principal float64,
) (totalPayment, totalInterest float64) {
	totalPayment = payment*float64(installments) + processingFee
	totalInterest = totalPayment - principal - processingFee
	return totalPayment, totalInterest
}

// Calculate runs the engine for one parameter set. It never fails.
func Calculate(params domain.LoanParameters) domain.Calculation {
	n := params.Installments()
	r := params.PeriodicRate()

	payment := ComputePayment(
		params.Principal,
		params.AnnualRatePercent,
		params.TenureYears,
		params.PaymentsPerYear,
	)
	totalPayment, totalInterest := ComputeTotals(payment, n, params.ProcessingFee, params.Principal)

	return domain.Calculation{
		Parameters: params,
		Result: domain.ComputationResult{
			PeriodicPayment: payment,
			TotalPayment:    totalPayment,
			TotalInterest:   totalInterest,
			ProcessingFee:   params.ProcessingFee,
			Principal:       params.Principal,
			TenureYears:     params.TenureYears,
		},
		Schedule: BuildSchedule(params.Principal, r, n, payment),
	}
}
