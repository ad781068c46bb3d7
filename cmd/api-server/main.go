package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/medibook/consult/internal/api"
	"github.com/medibook/consult/internal/config"
	"github.com/medibook/consult/internal/consult"
	"github.com/medibook/consult/internal/logging"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New("api-server", cfg.Env, cfg.LogLevel)
	logger.Info().Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := consult.NewService(logger)
	if cfg.SeedDemoData {
		seedDemoData(svc)
		logger.Info().Msg("demo roster loaded")
	}

	router := api.NewRouter(api.RouterConfig{
		Service: svc,
		Logger:  logger,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info().Msg("shutting down api-server")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seedDemoData registers a small fixed roster so a dev instance has
// something to serve when poked by hand.
func seedDemoData(svc *consult.Service) {
	svc.RegisterPatient("Alice Smith", "1990-05-15", "Female", "9876543210", "alice.smith@example.com")
	svc.RegisterPatient("Bob Johnson", "1985-11-20", "Male", "8765432109", "bob.johnson@example.com")

	white := svc.RegisterDoctor("Dr. Emily White", "Cardiologist", "7418529630", "emily.white@example.com")
	green := svc.RegisterDoctor("Dr. John Green", "General Physician", "9638527410", "john.green@example.com")

	_ = svc.AddAvailability(white.ID, "2025-04-20", []string{"10:00", "11:00", "14:00"})
	_ = svc.AddAvailability(white.ID, "2025-04-21", []string{"09:30", "15:00"})
	_ = svc.AddAvailability(green.ID, "2025-04-20", []string{"11:30", "16:00"})
}
