package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vonhatnam1212/norugz-agent/internal/agent"
	"github.com/vonhatnam1212/norugz-agent/internal/classifier"
	"github.com/vonhatnam1212/norugz-agent/internal/launchpad"
	"github.com/vonhatnam1212/norugz-agent/internal/notify"
	"github.com/vonhatnam1212/norugz-agent/internal/storage"
	"github.com/vonhatnam1212/norugz-agent/internal/twitter"
	"github.com/vonhatnam1212/norugz-agent/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", configPath))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(cfg.Database, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Optional operator alerts
	var notifier *notify.Notifier
	if cfg.Telegram.Token != "" {
		notifier, err = notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.Fatal("Failed to initialize telegram notifier", zap.Error(err))
		}
	}

	engine := classifier.NewGPTEngine(cfg.OpenAI, logger)
	tw := twitter.NewHTTPClient(cfg.Twitter, logger)
	lp := launchpad.NewClient(cfg.Launchpad.BaseURL, logger)

	a := agent.New(cfg.Agent, tw, store, engine, lp, notifier, logger)

	// Stop between cycles on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		logger.Fatal("Agent error", zap.Error(err))
	}
}
