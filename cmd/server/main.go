package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/siddhesh434/jansunwai-indore/internal/assistant"
	"github.com/siddhesh434/jansunwai-indore/internal/config"
	"github.com/siddhesh434/jansunwai-indore/internal/db"
	httpapi "github.com/siddhesh434/jansunwai-indore/internal/http"
	"github.com/siddhesh434/jansunwai-indore/internal/llm"
	"github.com/siddhesh434/jansunwai-indore/internal/storage"
	"github.com/siddhesh434/jansunwai-indore/internal/triage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "jansunwai-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	files, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init upload dir")
	}

	text, vision := buildProviders(cfg, logger)

	svc := &triage.Service{
		Store:    store,
		Text:     text,
		Vision:   vision,
		Files:    files,
		Logger:   logger,
		CallTime: cfg.LLMTimeout,
	}
	asst := assistant.New(text)

	router := httpapi.Router(cfg, store, svc, text, vision, asst, files, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

func buildProviders(cfg config.Config, logger zerolog.Logger) (llm.Provider, llm.VisionProvider) {
	var text llm.Provider
	if cfg.LLMAPIKey == "" {
		logger.Info().Msg("using mock text provider")
		text = llm.Mock{}
	} else {
		switch cfg.LLMProvider {
		case "groq":
			text = llm.NewOpenAICompat("groq", cfg.LLMAPIKey, llm.GroqBaseURL, cfg.LLMTextModel, cfg.LLMTimeout)
		case "deepinfra":
			text = llm.NewOpenAICompat("deepinfra", cfg.LLMAPIKey, llm.DeepInfraBaseURL, cfg.LLMTextModel, cfg.LLMTimeout)
		case "openai":
			text = llm.NewOpenAICompat("openai", cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMTextModel, cfg.LLMTimeout)
		case "anthropic":
			text = llm.NewAnthropic(cfg.LLMAPIKey, cfg.LLMTextModel, cfg.LLMTimeout)
		case "gemini":
			text = llm.NewGemini(cfg.LLMAPIKey, cfg.LLMTextModel, cfg.LLMTimeout)
		default:
			logger.Warn().Str("provider", cfg.LLMProvider).Msg("unknown LLM provider, using mock")
			text = llm.Mock{}
		}
	}

	// Vision always goes through Gemini; the text-only providers cannot
	// accept inline media. Its key is separate from the text key, since the
	// usual deployment pairs Groq text with Gemini vision.
	visionKey := cfg.LLMVisionAPIKey
	if visionKey == "" && cfg.LLMProvider == "gemini" {
		visionKey = cfg.LLMAPIKey
	}
	if visionKey == "" {
		logger.Info().Msg("using mock vision provider")
		return text, llm.Mock{}
	}
	return text, llm.NewGemini(visionKey, cfg.LLMVisionModel, cfg.LLMTimeout)
}
