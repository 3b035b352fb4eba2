// Package source defines the adapter boundary between external product data
// origins and the pipeline's common RawProduct shape.
package source

import (
	"context"

	"catalog/internal/models"
)

// Adapter fetches the full batch of raw records from one external origin.
// Adapters know nothing about the destination schema; a Fetch failure is
// fatal to the run (nothing downstream is recoverable without source data).
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]models.RawProduct, error)
}
