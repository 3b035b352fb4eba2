// Package worker consumes the pipeline's import events and writes the
// side-channel audit artifacts: a JSON-lines audit log and local mirrors of
// product image assets.
package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"catalog/internal/backup"
	"catalog/internal/config"
	"catalog/internal/logger"
	"catalog/internal/pipeline"
)

type Worker struct {
	config *config.Config
	logger *logger.Logger
	reader *kafka.Reader
	backup *backup.Writer
}

func New(cfg *config.Config, logger *logger.Logger, bw *backup.Writer) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        "catalog-audit-worker",
		Topic:          "catalog-events",
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		reader: reader,
		backup: bw,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Audit worker started, listening for import events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		var event pipeline.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.process(event, message.Value); err != nil {
			w.logger.Error("Failed to process event for %s: %v", event.Handle, err)
			continue
		}
	}
}

func (w *Worker) process(event pipeline.Event, raw []byte) error {
	if w.backup == nil {
		return nil
	}

	if err := w.backup.AppendAudit(raw); err != nil {
		return err
	}

	if event.ImageURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if _, err := w.backup.MirrorAsset(ctx, event.ImageURL); err != nil {
			// asset mirroring is best effort
			w.logger.Warn("Failed to mirror asset for %s: %v", event.Handle, err)
		}
	}

	return nil
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
