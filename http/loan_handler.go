package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"emi-calculator/domain"
	"emi-calculator/service"
)

type LoanHandler struct {
	service *service.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(service *service.LoanService, logger *slog.Logger) *LoanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanHandler{service: service, logger: logger.With("component", "loan_api")}
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// numbers and strings are both accepted and coerced like the form
	var req domain.RawInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	calc := h.service.Calculate(r.Context(), service.ParseParameters(req))
	h.writeJSON(w, r, calc)
}

func (h *LoanHandler) LastCalculation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	calc, ok := h.service.Last()
	if !ok {
		http.Error(w, "no calculation yet", http.StatusNotFound)
		return
	}
	h.writeJSON(w, r, calc)
}

func (h *LoanHandler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(&buf); err != nil {
		if errors.Is(err, service.ErrNoData) {
			http.Error(w, noDataNotice, http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "Error exporting schedule", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeDownload(w, h.logger, r, "text/csv; charset=utf-8", service.CSVFileName, &buf)
}

func (h *LoanHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.service.Reset(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Error resetting session", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LoanHandler) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	// encode into a buffer first so a failure can still change the status
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.logger.ErrorContext(r.Context(), "Error encoding response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "Error writing response", "error", err)
	}
}

func writeDownload(
	w http.ResponseWriter,
	logger *slog.Logger,
	r *http.Request,
	contentType string,
	filename string,
	body *bytes.Buffer,
) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := body.WriteTo(w); err != nil {
		logger.WarnContext(r.Context(), "Error writing download", "file", filename, "error", err)
	}
}
