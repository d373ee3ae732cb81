package http

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"emi-calculator/repository"
	"emi-calculator/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() (*service.LoanService, *repository.MemoryStore) {
	kv := repository.NewMemoryStore()
	store := repository.NewParametersStore(kv, "lastLoanData", discardLogger())
	return service.NewLoanService(store, discardLogger()), kv
}

func newTestRouter(t *testing.T, svc *service.LoanService) http.Handler {
	t.Helper()
	limiter := NewRateLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	router, err := NewRouter(svc, limiter, discardLogger())
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}
