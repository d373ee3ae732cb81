package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"emi-calculator/domain"
	"emi-calculator/repository"
)

type MockParametersRepository struct {
	Saved        *domain.LoanParameters
	SaveCalled   bool
	DeleteCalled bool
	ForceError   bool
}

func (m *MockParametersRepository) Load(ctx context.Context) (domain.RawInput, bool, error) {
	if m.ForceError {
		return domain.RawInput{}, false, errors.New("load error")
	}
	if m.Saved == nil {
		return domain.RawInput{}, false, nil
	}
	return m.Saved.Input(), true, nil
}

func (m *MockParametersRepository) Save(ctx context.Context, params domain.LoanParameters) error {
	m.SaveCalled = true
	if m.ForceError {
		return errors.New("save error")
	}
	m.Saved = &params
	return nil
}

func (m *MockParametersRepository) Delete(ctx context.Context) error {
	m.DeleteCalled = true
	if m.ForceError {
		return errors.New("delete error")
	}
	m.Saved = nil
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var referenceLoan = domain.LoanParameters{
	Principal:         1000000,
	AnnualRatePercent: 10,
	TenureYears:       5,
	PaymentsPerYear:   12,
	ProcessingFee:     5000,
}

func TestLoanService_CalculateSaves(t *testing.T) {
	mockRepo := &MockParametersRepository{}
	service := NewLoanService(mockRepo, discardLogger())

	calc := service.Calculate(context.Background(), referenceLoan)

	if len(calc.Schedule) != 60 {
		t.Errorf("expected 60 rows, got %d", len(calc.Schedule))
	}
	if !mockRepo.SaveCalled {
		t.Errorf("expected repository Save to be called")
	}
	if mockRepo.Saved == nil || *mockRepo.Saved != referenceLoan {
		t.Errorf("expected saved parameters %+v, got %+v", referenceLoan, mockRepo.Saved)
	}

	last, ok := service.Last()
	if !ok || last.Result != calc.Result {
		t.Errorf("expected last calculation to be kept")
	}
}

func TestLoanService_SaveFailureIsNotFatal(t *testing.T) {
	mockRepo := &MockParametersRepository{ForceError: true}
	service := NewLoanService(mockRepo, discardLogger())

	calc := service.Calculate(context.Background(), referenceLoan)
	if calc.Result.PeriodicPayment <= 0 {
		t.Errorf("expected payment > 0")
	}
	if _, ok := service.Last(); !ok {
		t.Errorf("expected calculation kept despite save error")
	}
}

func TestLoanService_LastReplacedOnEachCalculation(t *testing.T) {
	service := NewLoanService(&MockParametersRepository{}, discardLogger())

	service.Calculate(context.Background(), referenceLoan)
	service.Calculate(context.Background(), domain.LoanParameters{Principal: 1200, TenureYears: 1, PaymentsPerYear: 12})

	last, _ := service.Last()
	if len(last.Schedule) != 12 || last.Schedule[0].Payment != 100 {
		t.Errorf("expected second calculation to replace the first, got %+v", last.Schedule[0])
	}
}

func TestLoanService_Restore(t *testing.T) {
	saved := referenceLoan
	mockRepo := &MockParametersRepository{Saved: &saved}
	service := NewLoanService(mockRepo, discardLogger())

	calc, ok := service.Restore(context.Background())
	if !ok {
		t.Fatalf("expected saved parameters to be restored")
	}
	if calc.Parameters != referenceLoan {
		t.Errorf("expected restored parameters %+v, got %+v", referenceLoan, calc.Parameters)
	}
	if _, ok := service.Last(); !ok {
		t.Errorf("expected restore to trigger a calculation")
	}
}

func TestLoanService_RestoreNothingSaved(t *testing.T) {
	service := NewLoanService(&MockParametersRepository{}, discardLogger())

	if _, ok := service.Restore(context.Background()); ok {
		t.Errorf("expected no restore without saved parameters")
	}
	if _, ok := service.Last(); ok {
		t.Errorf("expected no calculation")
	}
}

func TestLoanService_RestoreMalformedFailsClosed(t *testing.T) {
	kv := repository.NewMemoryStore()
	kv.Data["lastLoanData"] = "{not json"
	store := repository.NewParametersStore(kv, "lastLoanData", discardLogger())
	service := NewLoanService(store, discardLogger())

	if _, ok := service.Restore(context.Background()); ok {
		t.Errorf("expected malformed state to be ignored")
	}
	if _, ok := service.Last(); ok {
		t.Errorf("expected no calculation from malformed state")
	}
}

func TestLoanService_ExportBeforeCalculate(t *testing.T) {
	service := NewLoanService(&MockParametersRepository{}, discardLogger())

	var buf bytes.Buffer
	if err := service.ExportCSV(&buf); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written, got %q", buf.String())
	}
	if err := service.ExportPDF(&buf); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for pdf, got %v", err)
	}
}

func TestLoanService_ExportEmptySchedule(t *testing.T) {
	service := NewLoanService(&MockParametersRepository{}, discardLogger())
	service.Calculate(context.Background(), domain.LoanParameters{Principal: 1000, PaymentsPerYear: 12})

	var buf bytes.Buffer
	if err := service.ExportCSV(&buf); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for an empty schedule, got %v", err)
	}
}

func TestLoanService_ExportCSV(t *testing.T) {
	service := NewLoanService(&MockParametersRepository{}, discardLogger())
	calc := service.Calculate(context.Background(), referenceLoan)

	var buf bytes.Buffer
	if err := service.ExportCSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[0] != "Installment,Payment,Interest,Principal,Balance" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines)-1 != len(calc.Schedule) {
		t.Errorf("expected %d data rows, got %d", len(calc.Schedule), len(lines)-1)
	}
	if lines[1] != "1,21247,8333,12914,987086" {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestLoanService_Reset(t *testing.T) {
	mockRepo := &MockParametersRepository{}
	service := NewLoanService(mockRepo, discardLogger())
	service.Calculate(context.Background(), referenceLoan)

	if err := service.Reset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mockRepo.DeleteCalled {
		t.Errorf("expected repository Delete to be called")
	}
	if _, ok := service.Last(); ok {
		t.Errorf("expected last calculation cleared")
	}
	if _, ok := service.Restore(context.Background()); ok {
		t.Errorf("expected no auto-load after reset")
	}
	var buf bytes.Buffer
	if err := service.ExportCSV(&buf); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData after reset, got %v", err)
	}
}

func TestLoanService_ResetError(t *testing.T) {
	service := NewLoanService(&MockParametersRepository{ForceError: true}, discardLogger())
	if err := service.Reset(context.Background()); err == nil {
		t.Errorf("expected reset error")
	}
}

func restoreFrom(t *testing.T, stored string) (domain.Calculation, bool) {
	t.Helper()
	kv := repository.NewMemoryStore()
	kv.Data["lastLoanData"] = stored
	store := repository.NewParametersStore(kv, "lastLoanData", discardLogger())
	return NewLoanService(store, discardLogger()).Restore(context.Background())
}

func TestLoanService_RestorePartialRecord(t *testing.T) {
	calc, ok := restoreFrom(t, `{"principal":100000,"rate":10,"years":5}`)
	if !ok {
		t.Fatalf("expected partial record to be restored")
	}
	if calc.Parameters.PaymentsPerYear != DefaultPaymentsPerYear {
		t.Errorf("expected missing frequency to default to 12, got %d", calc.Parameters.PaymentsPerYear)
	}
	if calc.Parameters.ProcessingFee != 0 {
		t.Errorf("expected missing fee to default to 0, got %v", calc.Parameters.ProcessingFee)
	}
	if len(calc.Schedule) != 60 {
		t.Errorf("expected 60 rows, got %d", len(calc.Schedule))
	}
}

func TestLoanService_RestoreStringValues(t *testing.T) {
	calc, ok := restoreFrom(t, `{"principal":"100000","rate":"10","years":"5","frequency":"4","procFee":"1500abc"}`)
	if !ok {
		t.Fatalf("expected string record to be restored")
	}
	want := domain.LoanParameters{Principal: 100000, AnnualRatePercent: 10, TenureYears: 5, PaymentsPerYear: 4, ProcessingFee: 1500}
	if calc.Parameters != want {
		t.Errorf("expected %+v, got %+v", want, calc.Parameters)
	}
	if len(calc.Schedule) != 20 {
		t.Errorf("expected 20 rows, got %d", len(calc.Schedule))
	}
}

func TestLoanService_RestoreNonObjectFailsClosed(t *testing.T) {
	for _, stored := range []string{"null", `"text"`, "[1,2]"} {
		if _, ok := restoreFrom(t, stored); ok {
			t.Errorf("expected %s to be ignored", stored)
		}
	}
}

// slowRepository holds the first Save until release is closed.
type slowRepository struct {
	mu      sync.Mutex
	saved   domain.LoanParameters
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (r *slowRepository) Load(ctx context.Context) (domain.RawInput, bool, error) {
	return domain.RawInput{}, false, nil
}

func (r *slowRepository) Save(ctx context.Context, params domain.LoanParameters) error {
	r.mu.Lock()
	r.calls++
	first := r.calls == 1
	r.mu.Unlock()

	if first {
		close(r.entered)
		<-r.release
	}

	r.mu.Lock()
	r.saved = params
	r.mu.Unlock()
	return nil
}

func (r *slowRepository) Delete(ctx context.Context) error {
	return nil
}

func TestLoanService_ConcurrentCalculateKeepsStoreInStep(t *testing.T) {
	repo := &slowRepository{entered: make(chan struct{}), release: make(chan struct{})}
	service := NewLoanService(repo, discardLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		service.Calculate(ctx, domain.LoanParameters{Principal: 1000, TenureYears: 1, PaymentsPerYear: 12})
	}()

	<-repo.entered
	go func() {
		defer wg.Done()
		service.Calculate(ctx, domain.LoanParameters{Principal: 2000, TenureYears: 1, PaymentsPerYear: 12})
	}()

	time.Sleep(20 * time.Millisecond)
	close(repo.release)
	wg.Wait()

	last, ok := service.Last()
	if !ok {
		t.Fatalf("expected a last calculation")
	}
	repo.mu.Lock()
	persisted := repo.saved.Principal
	repo.mu.Unlock()

	if last.Parameters.Principal != persisted {
		t.Errorf("in-memory principal %v differs from persisted principal %v",
			last.Parameters.Principal, persisted)
	}
}
