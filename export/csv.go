// Package export serializes an amortization schedule for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"emi-calculator/domain"
)

var csvHeader = []string{"Installment", "Payment", "Interest", "Principal", "Balance"}

// WriteCSV writes the header and one line per installment, in schedule
// order, each terminated by a newline.
func WriteCSV(w io.Writer, schedule []domain.InstallmentRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range schedule {
		row := []string{
			strconv.Itoa(rec.Index),
			strconv.FormatInt(rec.Payment, 10),
			strconv.FormatInt(rec.Interest, 10),
			strconv.FormatInt(rec.Principal, 10),
			strconv.FormatInt(rec.Balance, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", rec.Index, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
