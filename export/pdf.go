package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"emi-calculator/domain"
	"emi-calculator/money"
)

const (
	pageMargin   = 15.0
	contentWidth = 210.0 - 2*pageMargin
)

const unicodeFamily = "unicode"

// PDFOptions tunes the PDF statement.
type PDFOptions struct {
	// FontPath is a TrueType font with the rupee glyph. Without it the
	// core Latin-1 fonts are used and amounts are written as "Rs.".
	FontPath string
}

// pdfAmount swaps the rupee sign for "Rs." since the core PDF fonts are
// Latin-1 only.
func pdfAmount(v float64) string {
	return strings.ReplaceAll(money.FormatINR(v), "₹", "Rs. ")
}

// WritePDF renders the summary and the schedule table as an A4 document.
func WritePDF(w io.Writer, calc domain.Calculation, opts PDFOptions) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)

	family, amount := "Arial", pdfAmount
	if opts.FontPath != "" {
		// one face serves every style
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8Font(unicodeFamily, style, opts.FontPath)
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("load pdf font %s: %w", opts.FontPath, err)
		}
		family, amount = unicodeFamily, money.FormatINR
	}

	pdf.AddPage()

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(contentWidth, 10, "Loan EMI Statement", "", 1, "C", false, 0, "")
	pdf.SetFont(family, "I", 9)
	pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	res := calc.Result
	summary := [][2]string{
		{"Principal", amount(res.Principal)},
		{"Tenure", strconv.Itoa(res.TenureYears) + " yr"},
		{"Interest rate", strconv.FormatFloat(calc.Parameters.AnnualRatePercent, 'f', -1, 64) + "% p.a."},
		{"Payments per year", strconv.Itoa(calc.Parameters.PaymentsPerYear)},
		{"Installment", amount(res.PeriodicPayment)},
		{"Total interest", amount(res.TotalInterest)},
		{"Processing fee", amount(res.ProcessingFee)},
		{"Total payment", amount(res.TotalPayment)},
	}

	pdf.SetFillColor(235, 240, 250)
	for _, line := range summary {
		pdf.SetFont(family, "B", 10)
		pdf.CellFormat(contentWidth/2, 7, line[0], "1", 0, "L", true, 0, "")
		pdf.SetFont(family, "", 10)
		pdf.CellFormat(contentWidth/2, 7, line[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(8)

	colWidths := []float64{24, 39, 39, 39, 39}
	writeHeader := func() {
		pdf.SetFont(family, "B", 9)
		for i, h := range csvHeader {
			pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	writeHeader()
	pdf.SetFont(family, "", 9)
	for _, rec := range calc.Schedule {
		if pdf.GetY() > 297-pageMargin-7 {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont(family, "", 9)
		}
		cells := []string{
			strconv.Itoa(rec.Index),
			amount(float64(rec.Payment)),
			amount(float64(rec.Interest)),
			amount(float64(rec.Principal)),
			amount(float64(rec.Balance)),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(colWidths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
