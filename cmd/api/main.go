package main

import (
	"log"

	"catalog/internal/api"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logger"
	"catalog/internal/pipeline"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	factory := func(sourceName, mode string) (*pipeline.Pipeline, error) {
		return pipeline.NewFromConfig(cfg, db, logger, sourceName, mode)
	}

	// Initialize API server
	server := api.New(cfg, logger, db, factory)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
