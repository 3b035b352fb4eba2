// Package export reads a vendor's scraped product dump: a JSON array of raw
// records on local disk.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"catalog/internal/logger"
	"catalog/internal/models"
)

type Adapter struct {
	path string
	log  *logger.Logger
}

func New(path string, log *logger.Logger) *Adapter {
	return &Adapter{
		path: path,
		log:  log,
	}
}

func (a *Adapter) Name() string {
	return "export:" + a.path
}

func (a *Adapter) Fetch(ctx context.Context) ([]models.RawProduct, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file %s: %w", a.path, err)
	}

	var records []models.RawProduct
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("malformed export file %s: %w", a.path, err)
	}

	a.log.Info("Loaded %d records from %s", len(records), a.path)
	return records, nil
}
