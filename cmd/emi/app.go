package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"emi-calculator/config"
	"emi-calculator/domain"
	"emi-calculator/money"
	"emi-calculator/repository"
	"emi-calculator/service"
)

type options struct {
	paramsFile   string
	raw          domain.RawInput
	csvPath      string
	pdfPath      string
	xlsxPath     string
	hideSchedule bool
	reset        bool
}

func parseFlags(args []string, stderr io.Writer) (options, bool, error) {
	var opts options

	fs := flag.NewFlagSet("emi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.paramsFile, "params", "", "YAML file with principal, rate, years, frequency, proc_fee")
	fs.StringVar(&opts.raw.Principal, "principal", "", "loan amount")
	fs.StringVar(&opts.raw.Rate, "rate", "", "annual interest rate in percent")
	fs.StringVar(&opts.raw.Years, "years", "", "tenure in years")
	fs.StringVar(&opts.raw.Frequency, "frequency", "", "payments per year (default 12)")
	fs.StringVar(&opts.raw.ProcFee, "fee", "", "one-time processing fee")
	fs.StringVar(&opts.csvPath, "csv", "", "write the schedule as CSV to this file")
	fs.StringVar(&opts.pdfPath, "pdf", "", "write a PDF statement to this file")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "write the schedule as an Excel workbook to this file")
	fs.BoolVar(&opts.hideSchedule, "hide-schedule", false, "print the summary only")
	fs.BoolVar(&opts.reset, "reset", false, "forget the saved loan data and exit")

	if err := fs.Parse(args); err != nil {
		return opts, false, err
	}

	hasInput := opts.paramsFile != ""
	if opts.paramsFile != "" {
		fromFile, err := loadParamsFile(opts.paramsFile)
		if err != nil {
			return opts, false, err
		}
		// flags given on the command line win over the file
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		merge(&fromFile.Principal, opts.raw.Principal, set["principal"])
		merge(&fromFile.Rate, opts.raw.Rate, set["rate"])
		merge(&fromFile.Years, opts.raw.Years, set["years"])
		merge(&fromFile.Frequency, opts.raw.Frequency, set["frequency"])
		merge(&fromFile.ProcFee, opts.raw.ProcFee, set["fee"])
		opts.raw = fromFile
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "principal", "rate", "years", "frequency", "fee":
			hasInput = true
		}
	})

	return opts, hasInput, nil
}

func merge(dst *string, value string, set bool) {
	if set {
		*dst = value
	}
}

func loadParamsFile(path string) (domain.RawInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RawInput{}, fmt.Errorf("read params file: %w", err)
	}

	var raw domain.RawInput
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.RawInput{}, fmt.Errorf("parse params file %s: %w", path, err)
	}
	return raw, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, hasInput, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg := config.Load()
	logger := cfg.NewLogger(stderr)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", "error", err, "backend", cfg.StoreBackend)
		return 1
	}
	defer backend.Cleanup()

	loanService := service.NewLoanService(
		repository.NewParametersStore(backend.Store, cfg.StateKey, logger),
		logger,
	)
	loanService.UsePDFFont(cfg.PDFFontPath)

	if opts.reset {
		if err := loanService.Reset(ctx); err != nil {
			logger.Error("Reset failed", "error", err)
			return 1
		}
		fmt.Fprintln(stdout, "Saved loan data cleared.")
		return 0
	}

	// without inputs, behave like a fresh page load: recompute whatever was saved
	var calc domain.Calculation
	if hasInput {
		calc = loanService.Calculate(ctx, service.ParseParameters(opts.raw))
	} else if restored, ok := loanService.Restore(ctx); ok {
		calc = restored
		hasInput = true
	}

	if hasInput {
		printSummary(stdout, calc)
		if !opts.hideSchedule {
			fmt.Fprintln(stdout)
			printSchedule(stdout, calc.Schedule)
		}
	} else if opts.csvPath == "" && opts.pdfPath == "" && opts.xlsxPath == "" {
		fmt.Fprintln(stderr, "No saved loan data. Pass -principal, -rate and -years or -params.")
		return 1
	}

	status := 0
	if opts.csvPath != "" && !writeExport(stdout, stderr, opts.csvPath, loanService.ExportCSV) {
		status = 1
	}
	if opts.pdfPath != "" && !writeExport(stdout, stderr, opts.pdfPath, loanService.ExportPDF) {
		status = 1
	}
	if opts.xlsxPath != "" && !writeExport(stdout, stderr, opts.xlsxPath, loanService.ExportXLSX) {
		status = 1
	}
	return status
}

// writeExport renders into memory first so a refused export leaves no file.
func writeExport(stdout, stderr io.Writer, path string, export func(io.Writer) error) bool {
	var buf bytes.Buffer
	if err := export(&buf); err != nil {
		if errors.Is(err, service.ErrNoData) {
			fmt.Fprintln(stderr, "No data to export")
			return false
		}
		fmt.Fprintf(stderr, "export %s: %v\n", path, err)
		return false
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(stderr, "write %s: %v\n", path, err)
		return false
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return true
}

func printSummary(w io.Writer, calc domain.Calculation) {
	res := calc.Result
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "EMI\t%s\n", money.FormatINR(res.PeriodicPayment))
	fmt.Fprintf(tw, "Total interest\t%s\n", money.FormatINR(res.TotalInterest))
	fmt.Fprintf(tw, "Total payment\t%s\n", money.FormatINR(res.TotalPayment))
	fmt.Fprintf(tw, "Processing fee\t%s\n", money.FormatINR(res.ProcessingFee))
	fmt.Fprintf(tw, "Principal\t%s\n", money.FormatINR(res.Principal))
	fmt.Fprintf(tw, "Tenure\t%s yr\n", strconv.Itoa(res.TenureYears))
	tw.Flush()
}

func printSchedule(w io.Writer, schedule []domain.InstallmentRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tPayment\tInterest\tPrincipal\tBalance\t")
	for _, rec := range schedule {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			rec.Index,
			money.FormatINR(rec.Exact.Payment),
			money.FormatINR(rec.Exact.Interest),
			money.FormatINR(rec.Exact.Principal),
			money.FormatINR(rec.Exact.Balance))
	}
	tw.Flush()
}
