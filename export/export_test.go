package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"emi-calculator/domain"
)

func sampleSchedule() []domain.InstallmentRecord {
	return []domain.InstallmentRecord{
		{Index: 1, Payment: 21247, Interest: 8333, Principal: 12914, Balance: 987086},
		{Index: 2, Payment: 21247, Interest: 8226, Principal: 13021, Balance: 974065},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSchedule()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Installment,Payment,Interest,Principal,Balance\n" +
		"1,21247,8333,12914,987086\n" +
		"2,21247,8226,13021,974065\n"
	if buf.String() != want {
		t.Errorf("unexpected csv:\n%s", buf.String())
	}
}

func TestWriteCSV_EmptySchedule(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "Installment,Payment,Interest,Principal,Balance\n" {
		t.Errorf("expected header only, got %q", buf.String())
	}
}

func TestWriteCSV_NegativePrincipalPortion(t *testing.T) {
	var buf bytes.Buffer
	schedule := []domain.InstallmentRecord{{Index: 1, Payment: 10, Interest: 12, Principal: -2, Balance: 0}}
	if err := WriteCSV(&buf, schedule); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "1,10,12,-2,0\n") {
		t.Errorf("expected negative principal row, got %q", buf.String())
	}
}

func TestWritePDF(t *testing.T) {
	calc := domain.Calculation{
		Parameters: domain.LoanParameters{Principal: 1000000, AnnualRatePercent: 10, TenureYears: 5, PaymentsPerYear: 12},
		Result: domain.ComputationResult{
			PeriodicPayment: 21247.04,
			TotalPayment:    1274822.4,
			TotalInterest:   274822.4,
			Principal:       1000000,
			TenureYears:     5,
		},
		Schedule: sampleSchedule(),
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, calc, PDFOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("expected PDF header, got %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestPDFAmount(t *testing.T) {
	if got := pdfAmount(1000000); got != "Rs. 10,00,000" {
		t.Errorf("expected Rs. 10,00,000, got %q", got)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleSchedule()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "Installment,Payment,Interest,Principal,Balance" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if strings.Join(rows[1], ",") != "1,21247,8333,12914,987086" {
		t.Errorf("unexpected first row %v", rows[1])
	}
}

func TestWritePDF_MissingFont(t *testing.T) {
	calc := domain.Calculation{Schedule: sampleSchedule()}

	var buf bytes.Buffer
	err := WritePDF(&buf, calc, PDFOptions{FontPath: filepath.Join(t.TempDir(), "missing.ttf")})
	if err == nil {
		t.Fatal("expected an error for a missing font file")
	}
	if !strings.Contains(err.Error(), "load pdf font") {
		t.Errorf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %d bytes", buf.Len())
	}
}

func TestWritePDF_UnicodeFontFromEnv(t *testing.T) {
	fontPath := os.Getenv("EMI_TEST_TTF")
	if fontPath == "" {
		t.Skip("EMI_TEST_TTF not set")
	}
	calc := domain.Calculation{Result: domain.ComputationResult{Principal: 1000000}, Schedule: sampleSchedule()}

	var buf bytes.Buffer
	if err := WritePDF(&buf, calc, PDFOptions{FontPath: fontPath}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("expected PDF header")
	}
}
