package cmd

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"panelcore/internal/adapters/exports"
	"panelcore/internal/adapters/panelhttp"
	"panelcore/internal/blob"
	"panelcore/internal/core"
	"panelcore/pkg/screen"
	"panelcore/screens/tasks"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin panel HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	logger := newLogger()

	schemas := screen.NewSchemaSet()
	if err := schemas.Register(tasks.Schema()); err != nil {
		return fmt.Errorf("register task schema: %w", err)
	}

	store, err := core.OpenPersistentStore(schemas)
	if err != nil {
		return fmt.Errorf("open persistent store: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics, err := core.NewPrometheusMetricsRecorder(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	svc := core.NewService(store, core.WithMetrics(metrics))

	taskScreen, err := tasks.Definition()
	if err != nil {
		return fmt.Errorf("build tasks screen: %w", err)
	}
	if err := svc.RegisterScreen(taskScreen, tasks.Menu()); err != nil {
		return fmt.Errorf("register tasks screen: %w", err)
	}

	blobStore, err := blob.Open(ctx)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	worker := exports.NewWorker(svc, blobStore, &slogAuditLog{logger: logger})
	worker.Start()

	handler := panelhttp.NewHandler(svc)
	handler.Exports = worker

	mux := http.NewServeMux()
	mux.Handle("/admin/", handler)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/debug/vars", expvar.Handler())

	addr := viper.GetString("listen_addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "blob_driver", string(blobStore.Driver()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := worker.Stop(shutdownCtx); err != nil {
		logger.Error("export worker shutdown", "error", err)
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch viper.GetString("log_level") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// slogAuditLog writes export audit entries to the server log.
type slogAuditLog struct {
	logger *slog.Logger
}

func (l *slogAuditLog) Record(_ context.Context, entry exports.AuditEntry) {
	l.logger.Info("export audit",
		"export_id", entry.ID,
		"action", entry.Action,
		"actor", entry.Actor,
		"route", entry.Route,
		"status", string(entry.Status),
		"reason", entry.Reason,
		"note", entry.Note,
	)
}
