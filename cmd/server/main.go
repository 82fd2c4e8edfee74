package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dermalens/backend/config"
	httpDelivery "github.com/dermalens/backend/internal/delivery/http"
	"github.com/dermalens/backend/internal/domain"
	"github.com/dermalens/backend/internal/infrastructure/cache"
	"github.com/dermalens/backend/internal/infrastructure/gemini"
	"github.com/dermalens/backend/internal/infrastructure/inci"
	"github.com/dermalens/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	slog.Info("Starting DermaLens Backend v1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache", cfg.Cache.Type,
	)

	repo, err := buildRepository(cfg)
	if err != nil {
		slog.Error("Failed to initialize product repository", "error", err)
		os.Exit(1)
	}

	inciClient := inci.NewClient(cfg.INCI.BaseURL, cfg.INCI.FetchTimeout)

	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model)
	if geminiClient.Configured() {
		slog.Info("Gemini API configured", "model", cfg.Gemini.Model)
	} else {
		slog.Warn("Gemini API not configured, using local summaries and alternatives")
	}

	analyzer := usecase.NewAnalyzerService(
		repo,
		inciClient,
		geminiClient,
		usecase.AnalyzerConfig{
			MaxConcurrentResolves: cfg.INCI.MaxConcurrentLookups,
		},
	)

	handler := httpDelivery.NewHandler(analyzer, cfg.Server.AdminPassword)
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}

// buildRepository selects the product store from configuration
func buildRepository(cfg *config.Config) (domain.ProductRepository, error) {
	if cfg.Cache.Type == "redis" {
		return cache.NewRedisRepository(cfg.Cache.RedisURL, cfg.Cache.TTL)
	}
	return cache.NewMemoryRepository(cfg.Cache.TTL), nil
}

// setupLogger installs a JSON slog handler, rotating to a file when one is
// configured.
func setupLogger(cfg config.LogConfig) {
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})))
}
