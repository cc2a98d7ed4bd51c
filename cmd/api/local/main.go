//go:build !lambda
// +build !lambda

package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chainvault/chainvault-api/internal/config"
	"github.com/chainvault/chainvault-api/internal/logger"
	"github.com/chainvault/chainvault-api/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Missing .env is fine when variables are set directly in the
		// environment.
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	logger.InitLogger(os.Getenv("STAGE"))
	defer logger.Sync()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	srv, err := server.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to build server", zap.Error(err))
	}
	defer srv.Close()

	if err := srv.Run(); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}
