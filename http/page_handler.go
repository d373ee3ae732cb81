package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"emi-calculator/domain"
	"emi-calculator/money"
	"emi-calculator/service"
	"emi-calculator/web"
)

const noDataNotice = "No data to export"

type frequencyOption struct {
	Value string
	Label string
}

var frequencies = []frequencyOption{
	{"12", "Monthly"},
	{"4", "Quarterly"},
	{"2", "Half-yearly"},
	{"1", "Yearly"},
}

type pageData struct {
	Form         domain.RawInput
	Frequencies  []frequencyOption
	Calc         *domain.Calculation
	ShowSchedule bool
	Notice       string
}

// PageHandler serves the calculator page. Computation happens in the
// service; this type only turns a Calculation into HTML.
type PageHandler struct {
	service   *service.LoanService
	templates *template.Template
	logger    *slog.Logger
}

func ParseTemplates() (*template.Template, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"inr": money.FormatINR,
	}).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func NewPageHandler(service *service.LoanService, templates *template.Template, logger *slog.Logger) *PageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{
		service:   service,
		templates: templates,
		logger:    logger.With("component", "pages"),
	}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := h.newPageData(showSchedule(r))
	if calc, ok := h.service.Last(); ok {
		data.setCalculation(calc)
	}
	h.render(w, r, http.StatusOK, data)
}

func (h *PageHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(r.Context(), "Parse form error", "error", err)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	raw := domain.RawInput{
		Principal: r.PostForm.Get("principal"),
		Rate:      r.PostForm.Get("rate"),
		Years:     r.PostForm.Get("years"),
		Frequency: r.PostForm.Get("frequency"),
		ProcFee:   r.PostForm.Get("procFee"),
	}
	calc := h.service.Calculate(r.Context(), service.ParseParameters(raw))

	data := h.newPageData(showSchedule(r))
	data.setCalculation(calc)
	h.render(w, r, http.StatusOK, data)
}

func (h *PageHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "text/csv; charset=utf-8", service.CSVFileName, h.service.ExportCSV)
}

func (h *PageHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/pdf", service.PDFFileName, h.service.ExportPDF)
}

func (h *PageHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		service.XLSXFileName, h.service.ExportXLSX)
}

func (h *PageHandler) export(
	w http.ResponseWriter,
	r *http.Request,
	contentType string,
	filename string,
	write func(io.Writer) error,
) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		if errors.Is(err, service.ErrNoData) {
			data := h.newPageData(true)
			data.Notice = noDataNotice
			h.render(w, r, http.StatusNotFound, data)
			return
		}
		h.logger.ErrorContext(r.Context(), "Export failed", "file", filename, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	writeDownload(w, h.logger, r, contentType, filename, &buf)
}

// Reset clears the saved state and sends the browser back to a blank page.
func (h *PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.service.Reset(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Reset failed", "error", err)
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) newPageData(show bool) pageData {
	return pageData{
		Form:         domain.RawInput{Frequency: strconv.Itoa(service.DefaultPaymentsPerYear)},
		Frequencies:  frequencies,
		ShowSchedule: show,
	}
}

func (d *pageData) setCalculation(calc domain.Calculation) {
	d.Calc = &calc
	d.Form = calc.Parameters.Input()
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.logger.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", "index.html")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "Error writing page", "error", err)
	}
}

// showSchedule reads the schedule toggle. The form posts a hidden "off"
// before the checkbox, so an unchecked box still arrives as a value; with
// no value at all the schedule is shown.
func showSchedule(r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		return true
	}
	values := r.Form["showAmort"]
	if len(values) == 0 {
		return true
	}
	return slices.Contains(values, "on")
}
