package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"eiareport/internal/config"
	"eiareport/internal/exporter"
	"eiareport/internal/fetcher"
	"eiareport/internal/infrastructure"
	"eiareport/internal/scheduler"
	transporthttp "eiareport/internal/transport/http"
	"eiareport/internal/updater"
)

func main() {
	once := flag.Bool("once", false, "run a single update and exit")
	out := flag.String("out", "", "report output path (defaults to data/reports under the executable)")
	configFile := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	reportPath := *out
	if reportPath == "" {
		reportPath = paths.GetReportPath(cfg.Report.OutputFile)
	}

	registry := prometheus.NewRegistry()
	metrics := infrastructure.NewMetrics(registry)

	client := fetcher.NewClient(cfg.Fetch, logger)
	writer := exporter.NewExcelWriter(logger)
	u := updater.New(client, writer, updater.Options{
		Years:      cfg.Fetch.Years,
		WindowDays: cfg.Report.WindowDays,
		ReportPath: reportPath,
		Logger:     logger,
		Metrics:    metrics,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		if !u.RunUpdate(ctx) {
			os.Exit(1)
		}
		return
	}

	runScheduled(ctx, cfg, u, registry, reportPath, logger)
}

// runScheduled runs the update loop alongside the admin HTTP server until
// the process receives an interrupt.
func runScheduled(ctx context.Context, cfg *config.Config, u *updater.Updater,
	registry *prometheus.Registry, reportPath string, logger *slog.Logger) {

	var server *http.Server
	if cfg.Server.Enabled {
		router := transporthttp.NewRouter(transporthttp.RouterDeps{
			Trigger:    u,
			Gatherer:   registry,
			ReportPath: reportPath,
			Logger:     logger,
		})
		server = transporthttp.NewServer(cfg.Server, router)

		go func() {
			logger.Info("admin server listening", slog.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("admin server failed", slog.String("error", err.Error()))
			}
		}()
	}

	sched := scheduler.New(u, cfg.Schedule, nil, logger)
	sched.Run(ctx)

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("admin server shutdown failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("reporter stopped")
}
