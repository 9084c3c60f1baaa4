package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/menagerie-labs/boardroom/pkg/config"
	"github.com/menagerie-labs/boardroom/pkg/utils"
)

func main() {
	utils.InitLogger()
	logger := utils.GetLogger()

	if _, err := config.EnsureDefaultConfig(); err != nil {
		logger.Warn("failed to write default config", "error", err)
	}
	cfg, path, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("config loaded", "path", path, "provider", cfg.Provider())

	server, err := NewServer(cfg)
	if err != nil {
		logger.Error("failed to initialize server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
