package pipeline

import (
	"fmt"

	"catalog/internal/backup"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logger"
	"catalog/internal/source"
	"catalog/internal/source/export"
	"catalog/internal/source/platform"
	"catalog/internal/store"
)

// NewFromConfig assembles a pipeline for the requested source ("export" or
// "platform") and mode ("full" or "primary"; mode selects which export file
// is loaded). Kafka events and backups are wired only when configured.
func NewFromConfig(cfg *config.Config, db *database.Database, log *logger.Logger, sourceName, mode string) (*Pipeline, error) {
	if mode != "full" && mode != "primary" {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	var src source.Adapter
	switch sourceName {
	case "export":
		path := cfg.ExportFile
		if mode == "primary" {
			path = cfg.PrimaryExportFile
		}
		src = export.New(path, log)
	case "platform":
		if cfg.PlatformAPIURL == "" {
			return nil, fmt.Errorf("PLATFORM_API_URL is required for the platform source")
		}
		client := platform.NewClient(cfg.PlatformAPIURL, cfg.PlatformAPIKey, log)
		src = platform.NewAdapter(client, log, cfg.PlatformGroupings...)
	default:
		return nil, fmt.Errorf("unknown source %q", sourceName)
	}

	opts := Options{
		Workers:  cfg.ImportWorkers,
		Currency: cfg.Currency,
	}
	if cfg.KafkaBrokers != "" {
		opts.Events = NewPublisher(cfg.KafkaBrokers)
	}
	if cfg.BackupDir != "" {
		bw, err := backup.NewWriter(cfg.BackupDir, log)
		if err != nil {
			return nil, err
		}
		opts.Backup = bw
	}

	return New(store.NewCatalogStore(db.DB), src, log, opts), nil
}
