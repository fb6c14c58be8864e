// Package main is the entry point for the SpaceCraft planet viewer.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/config"
	"github.com/Faultbox/spacecraft/internal/debugserver"
	"github.com/Faultbox/spacecraft/internal/game/viewer"
	"github.com/Faultbox/spacecraft/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== SpaceCraft ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// Create and run game
	g, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create game", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Metrics.Listen != "" {
		go debugserver.ListenAndServe(ctx, debugserver.New(cfg.Metrics.Listen, g.World()))
	}

	// Run the game loop
	if err := g.Run(); err != nil {
		logger.Error("game error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("game closed normally")
}
