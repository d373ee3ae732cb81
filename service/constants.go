package service

const (
	DefaultPaymentsPerYear = 12  // monthly installments
	MaxScheduleRows        = 100 // schedule is truncated after this many installments

	CSVFileName  = "last_loan_data.csv"
	PDFFileName  = "last_loan_data.pdf"
	XLSXFileName = "last_loan_data.xlsx"
)
