package main

import (
	"context"
	"log"

	"github.com/alkime/writeablog/internal/ai"
	"github.com/alkime/writeablog/internal/blog"
	"github.com/alkime/writeablog/internal/config"
	"github.com/alkime/writeablog/internal/keyring"
	"github.com/alkime/writeablog/internal/logger"
	"github.com/alkime/writeablog/internal/premium"
	"github.com/alkime/writeablog/internal/server"
	"github.com/alkime/writeablog/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	lg := logger.SetupLogger(cfg)

	// Log startup information
	lg.Info("Starting writeablog server",
		"env", cfg.Env,
		"port", cfg.Port,
		"ai_provider", cfg.AIProvider,
		"premium", cfg.PremiumEnabled(),
	)

	backends, err := ai.NewBackends(ai.Settings{
		Provider:        cfg.AIProvider,
		OpenAIAPIKey:    keyring.Resolve(keyring.OpenAI, cfg.OpenAIAPIKey),
		AnthropicAPIKey: keyring.Resolve(keyring.Anthropic, cfg.AnthropicAPIKey),
		ChatModel:       cfg.ChatModel,
		ImageModel:      cfg.ImageModel,
		Temperature:     &cfg.Temperature,
	})
	if err != nil {
		lg.Error("Failed to configure AI providers", "error", err)
		log.Fatalf("Fatal: %v", err)
	}

	generator := blog.NewGenerator(backends.Text, backends.Images, blog.Options{
		Timeout:          cfg.GenerateTimeout,
		ImageConcurrency: cfg.ImageConcurrency,
		HeaderImage:      cfg.HeaderImage,
		Logger:           lg,
	})

	deps := server.Deps{Generator: generator}

	if cfg.RedisURL != "" {
		client, err := session.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			lg.Error("Failed to connect to Redis", "error", err)
			log.Fatalf("Fatal: %v", err)
		}
		defer client.Close()
		deps.Locker = session.NewRedisLocker(client, cfg.SessionLockTTL)
	} else {
		lg.Debug("REDIS_URL not set, using in-memory session locks")
		deps.Locker = session.NewMemoryLocker()
	}

	if cfg.PremiumEnabled() {
		deps.Premium, err = premium.NewVerifier(cfg.PremiumSecret)
		if err != nil {
			log.Fatalf("Fatal: %v", err)
		}
	}

	// Start server
	srv := server.New(cfg, lg, deps)
	if err := server.Run(srv); err != nil {
		lg.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
