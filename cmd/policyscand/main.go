package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/tharindu-jay/policyscan/internal/cache"
	"github.com/tharindu-jay/policyscan/internal/common"
	"github.com/tharindu-jay/policyscan/internal/export"
	"github.com/tharindu-jay/policyscan/internal/extract"
	"github.com/tharindu-jay/policyscan/internal/gemini"
	"github.com/tharindu-jay/policyscan/internal/server"
	"github.com/tharindu-jay/policyscan/internal/session"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store extract.Cache
	if cfg.Cache.Path != "" {
		db, err := cache.OpenSQLite(cfg.Cache.Path)
		if err != nil {
			logger.Error("opening extraction cache", "path", cfg.Cache.Path, "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing extraction cache", "error", err)
			}
		}()
		store = db
		logger.Info("extraction cache ready", "path", cfg.Cache.Path)
	} else {
		store = cache.NewMemory()
		logger.Info("extraction cache ready", "path", "(in-memory)")
	}

	client := gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	}, logger)

	srv := server.New(
		extract.NewService(client, store, logger),
		export.NewService(logger),
		session.NewManager(logger),
		cfg.Server.MaxUploadBytes,
		logger,
	)

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Routes(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr, "model", cfg.Gemini.Model)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
