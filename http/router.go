package http

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"emi-calculator/service"
	"emi-calculator/web"
)

// NewRouter wires pages, the JSON API and static assets behind the
// logging, security and rate limiting middleware.
func NewRouter(
	loanService *service.LoanService,
	limiter *RateLimiter,
	logger *slog.Logger,
) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := ParseTemplates()
	if err != nil {
		return nil, err
	}

	pages := NewPageHandler(loanService, templates, logger)
	api := NewLoanHandler(loanService, logger)

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, logger, h)
	}

	mux := http.NewServeMux()

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(static)))
	mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/", pages.Index)
	mux.Handle("/calculate", limited(pages.Calculate))
	mux.HandleFunc("/export.csv", pages.ExportCSV)
	mux.HandleFunc("/export.pdf", pages.ExportPDF)
	mux.HandleFunc("/export.xlsx", pages.ExportXLSX)
	mux.Handle("/reset", limited(pages.Reset))

	mux.Handle("/api/loan/calculate", limited(api.CalculateLoan))
	mux.HandleFunc("/api/loan/last", api.LastCalculation)
	mux.HandleFunc("/api/loan/schedule.csv", api.ExportSchedule)
	mux.Handle("/api/loan/reset", limited(api.Reset))

	mux.HandleFunc("/healthz", handleHealth)

	return RequestLogger(logger, SecurityHeaders(mux)), nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
