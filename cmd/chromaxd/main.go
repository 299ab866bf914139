// Command chromaxd serves the bath layout configuration API and the
// compatibility check engine.
package main

import (
	"context"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/adapters/checks"
	"github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/archive"
	"github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/core"
)

// slogAdapter bridges log/slog onto the service logging contract.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Debug(msg string, args ...any) { a.logger.Debug(msg, args...) }
func (a slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "chromaxd")
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("chromaxd exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := core.NewDefaultRulesEngine()
	store, err := core.OpenPersistentStore(engine)
	if err != nil {
		return err
	}

	reports, err := archive.Open(ctx)
	if err != nil {
		return err
	}
	logger.Info("report archive ready", "driver", reports.Driver())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	service := core.NewService(store,
		core.WithLogger(slogAdapter{logger: logger}),
		core.WithMetricsRecorder(core.NewPrometheusMetricsRecorder(registry)),
		core.WithTracer(core.NewJSONTracer(os.Stderr)),
		core.WithArchive(reports),
	)
	if seeded, err := service.EnsureDefaults(ctx); err != nil {
		return err
	} else if seeded {
		logger.Info("factory defaults seeded")
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", checks.NewHandler(service))
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := os.Getenv("CHROMAX_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chromaxd listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
