package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"emi-calculator/domain"
	"emi-calculator/export"
	"emi-calculator/repository"
)

// ErrNoData is returned by exports when nothing has been computed yet.
var ErrNoData = errors.New("no data to export")

// LoanService is the calculator session: it owns the last calculation and
// keeps the persisted parameters in step with it.
type LoanService struct {
	repo   repository.ParametersRepository
	logger *slog.Logger
	pdf    export.PDFOptions

	// opMu serializes Calculate and Reset including their store calls, so
	// the saved parameters always belong to the last calculation.
	opMu sync.Mutex

	mu   sync.Mutex
	last *domain.Calculation
}

// NewLoanService creates a LoanService backed by the given parameters repository.
func NewLoanService(repo repository.ParametersRepository, logger *slog.Logger) *LoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanService{
		repo:   repo,
		logger: logger.With("component", "loan_service"),
	}
}

// UsePDFFont makes PDF exports render with the TrueType font at path.
func (s *LoanService) UsePDFFont(path string) {
	s.pdf.FontPath = path
}

// Calculate computes the EMI and schedule for params, makes the result the
// session's last calculation and saves params.
func (s *LoanService) Calculate(
	ctx context.Context,
	params domain.LoanParameters,
) domain.Calculation {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	calc := Calculate(params)

	s.mu.Lock()
	s.last = &calc
	s.mu.Unlock()

	// saving is not critical: the result is still shown
	if err := s.repo.Save(ctx, params); err != nil {
		s.logger.WarnContext(ctx, "Failed to save loan parameters", "error", err)
	}

	s.logger.DebugContext(ctx, "Loan calculated",
		"principal", params.Principal,
		"rate", params.AnnualRatePercent,
		"installments", params.Installments(),
		"rows", len(calc.Schedule))

	return calc
}

// Restore coerces and recomputes the saved parameters, if there are any.
// It is called once at startup.
func (s *LoanService) Restore(ctx context.Context) (domain.Calculation, bool) {
	saved, ok, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load saved loan parameters", "error", err)
		return domain.Calculation{}, false
	}
	if !ok {
		return domain.Calculation{}, false
	}

	s.logger.InfoContext(ctx, "Restoring saved loan parameters")
	return s.Calculate(ctx, ParseParameters(saved)), true
}

// Last returns the most recent calculation of this session.
func (s *LoanService) Last() (domain.Calculation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return domain.Calculation{}, false
	}
	return *s.last, true
}

// exportable mirrors the export precondition: a calculation exists and its
// schedule is not empty.
func (s *LoanService) exportable() (domain.Calculation, error) {
	calc, ok := s.Last()
	if !ok || len(calc.Schedule) == 0 {
		return domain.Calculation{}, ErrNoData
	}
	return calc, nil
}

// ExportCSV writes the last schedule as CSV.
func (s *LoanService) ExportCSV(w io.Writer) error {
	calc, err := s.exportable()
	if err != nil {
		return err
	}
	return export.WriteCSV(w, calc.Schedule)
}

// ExportPDF writes the last calculation as a PDF statement.
func (s *LoanService) ExportPDF(w io.Writer) error {
	calc, err := s.exportable()
	if err != nil {
		return err
	}
	return export.WritePDF(w, calc, s.pdf)
}

// ExportXLSX writes the last schedule as a spreadsheet.
func (s *LoanService) ExportXLSX(w io.Writer) error {
	calc, err := s.exportable()
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, calc.Schedule)
}

// Reset forgets the saved parameters and the last calculation.
func (s *LoanService) Reset(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.last = nil
	s.mu.Unlock()

	if err := s.repo.Delete(ctx); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}

	s.logger.InfoContext(ctx, "Session reset")
	return nil
}
