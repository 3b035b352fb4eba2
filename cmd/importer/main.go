package main

import (
	"context"
	"flag"
	"log"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logger"
	"catalog/internal/pipeline"
)

func main() {
	sourceName := flag.String("source", "export", "data source: export or platform")
	mode := flag.String("mode", "full", "import mode: full or primary")
	flag.Parse()

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
	defer db.Close()

	p, err := pipeline.NewFromConfig(cfg, db, logger, *sourceName, *mode)
	if err != nil {
		logger.Fatal("Failed to build pipeline: %v", err)
	}

	logger.Info("Starting %s import from %s source...", *mode, *sourceName)
	report, err := p.Run(context.Background())
	if err != nil {
		logger.Fatal("Import failed: %v", err)
	}

	logger.Info("Store totals: %d brands, %d collections, %d products, %d images, %d links, %d documents",
		report.FinalCounts.Brands, report.FinalCounts.Collections, report.FinalCounts.Products,
		report.FinalCounts.Images, report.FinalCounts.Memberships, report.FinalCounts.Documents)
}
