package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/reportview/internal/api"
	"github.com/dgallion1/reportview/internal/config"
	"github.com/dgallion1/reportview/internal/mission"
	"github.com/dgallion1/reportview/internal/session"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mission tables.
	data := mission.DefaultData()
	if cfg.MissionDataPath != "" {
		d, err := mission.LoadFile(cfg.MissionDataPath)
		if err != nil {
			log.Error("load mission data", "path", cfg.MissionDataPath, "error", err)
			os.Exit(1)
		}
		data = d
	}

	// Report source.
	src, err := session.ReadSource(cfg.ReportPath, cfg.LoaderOptions())
	if err != nil {
		log.Error("read report", "path", cfg.ReportPath, "error", err)
		os.Exit(1)
	}

	sessions := session.NewManager(src, data, session.Config{
		TTL:             cfg.SessionTTL,
		CleanupInterval: cfg.CleanupInterval,
		MaxSessions:     cfg.MaxSessions,
	}, log)
	sessions.Start(ctx)

	srv := api.NewServer(sessions, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		sessions.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting reportview", "port", cfg.Port, "report", cfg.ReportPath, "report_sha256", src.Hash, "tables", len(data.Tables))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
