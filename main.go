package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"emi-calculator/config"
	httpLayer "emi-calculator/http"
	"emi-calculator/repository"
	"emi-calculator/service"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := config.Load()
	logger := cfg.NewLogger(os.Stdout)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	backend, err := repository.Open(startupCtx, cfg, logger)
	if err != nil {
		cancelStartup()
		logger.Error("Failed to open store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	defer func() {
		if err := backend.Cleanup(); err != nil {
			logger.Warn("Error closing store", "error", err)
		}
	}()

	paramsStore := repository.NewParametersStore(backend.Store, cfg.StateKey, logger)
	loanService := service.NewLoanService(paramsStore, logger)
	loanService.UsePDFFont(cfg.PDFFontPath)

	if _, restored := loanService.Restore(startupCtx); restored {
		logger.Info("Restored last loan calculation")
	}
	cancelStartup()

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer rateLimiter.Stop()

	handler, err := httpLayer.NewRouter(loanService, rateLimiter, logger)
	if err != nil {
		logger.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting EMI calculator", "addr", server.Addr, "backend", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("Server error", "error", err)
		return
	case sig := <-quit:
		logger.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error during server shutdown", "error", err)
	}

	logger.Info("Server exited")
}
