package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RichardoC/padchat/internal/api"
	"github.com/RichardoC/padchat/internal/chat"
	"github.com/RichardoC/padchat/internal/config"
	"github.com/RichardoC/padchat/internal/db"
	"github.com/RichardoC/padchat/internal/llm"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		panic(err)
	}

	logger := newLogger(cfg.LogDevelopment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize LLM provider",
			zap.Error(err),
			zap.String("provider", cfg.Provider))
	}
	inference := llm.New(provider, llm.Models{
		Text:   cfg.TextModel,
		Vision: cfg.VisionModel,
		Title:  cfg.TitleModel,
	})

	chatService := chat.NewService(store, inference, logger,
		chat.WithMaxImageBytes(cfg.MaxImageBase64Bytes))

	if !cfg.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(chatService, logger)
	router := api.NewRouter(handler, logger, api.RouterConfig{
		StaticDir:    staticDir(cfg.StaticDir, logger),
		MaxBodyBytes: cfg.MaxBodyBytes(),
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("addr", cfg.Addr),
			zap.String("provider", cfg.Provider))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err = multierr.Combine(
		server.Shutdown(shutdownCtx),
		chatService.Wait(shutdownCtx),
		store.Close(),
	)
	if err != nil {
		logger.Error("unclean shutdown", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}

func newLogger(development bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func newProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return llm.NewGeminiProvider(ctx, cfg.APIKey)
	default:
		return llm.NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.TextModel)
	}
}

// staticDir disables static serving when the directory is missing.
func staticDir(dir string, logger *zap.Logger) string {
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Info("static directory not found, serving API only", zap.String("dir", dir))
		return ""
	}
	return dir
}
