package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"github.com/tazhate/tripbot/internal/mcp"
	"github.com/tazhate/tripbot/internal/obs"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("tripbot_api_url", "http://localhost:8080")
	v.SetDefault("tripbot_api_username", "")
	v.SetDefault("tripbot_api_password", "")
	v.SetDefault("log_level", "info")

	logger, err := obs.NewLogger(obs.LogConfig{
		Level: v.GetString("log_level"),
		App:   "tripbot-mcp",
		Env:   "stdio",
		Ver:   version,
	})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := mcp.NewServer(
		v.GetString("tripbot_api_url"),
		v.GetString("tripbot_api_username"),
		v.GetString("tripbot_api_password"),
		version,
		logger,
	)
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, os.Stdin, os.Stdout) }()

	// Serve blocks on stdin, so a signal ends the process without waiting
	select {
	case err := <-done:
		if err != nil {
			logger.Error("mcp server stopped", zap.Error(err))
		}
	case <-ctx.Done():
	}
}
