package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"studio-dashboard/internal/apiclient"
	"studio-dashboard/internal/config"
	"studio-dashboard/internal/database"
	"studio-dashboard/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	if !cfg.DebugTools {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// activity journal (optional)
	var journal database.Journal = database.NopJournal{}
	if cfg.DBDSN != "" {
		db, err := database.Open(ctx, cfg.DBDSN, logger)
		if err != nil {
			logger.Error("failed to connect database", "err", err)
			os.Exit(1)
		}
		journal = database.NewJournal(db, logger)
	} else {
		logger.Info("DB_DSN not set, activity journal disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.UpstreamTimeout),
		apiclient.WithLogger(logger),
		apiclient.WithMetrics(apiclient.NewMetrics(reg)),
	)

	router, err := server.NewRouter(server.Deps{
		Config:   cfg,
		API:      api,
		Journal:  journal,
		Log:      logger,
		Registry: reg,
	})
	if err != nil {
		logger.Error("failed to build router", "err", err)
		os.Exit(1)
	}

	logger.Info("backend", "url", cfg.APIBaseURL)
	if err := server.Start(ctx, ":"+cfg.ServerPort, router, cfg.ShutdownTimeout, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
