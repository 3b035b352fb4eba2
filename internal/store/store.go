// Package store holds the idempotent write contracts the pipeline runs
// against, keyed by natural keys (slug/handle or composite keys) so repeated
// runs never duplicate rows.
package store

import (
	"context"

	"catalog/internal/models"
)

// Store is the destination catalog. Every upsert is keyed on the entity's
// natural key and safe to repeat; reads exist to hydrate run-scoped caches
// and to verify final totals.
type Store interface {
	UpsertBrand(ctx context.Context, brand *models.Brand) (string, error)
	UpsertCollection(ctx context.Context, collection *models.Collection) (string, error)
	ListCollections(ctx context.Context) ([]models.Collection, error)
	ListProductHandles(ctx context.Context) ([]string, error)
	UpsertProduct(ctx context.Context, product *models.Product) (string, error)
	ReplaceProductImages(ctx context.Context, productID string, images []models.ProductImage) (int, error)
	ReplaceProductVariants(ctx context.Context, productID string, variants []models.ProductVariant) (int, error)
	UpsertDocument(ctx context.Context, doc *models.ProductDocument) error
	UpsertMembership(ctx context.Context, membership *models.CollectionMembership) error
	Counts(ctx context.Context) (Counts, error)
}

// Counts is a snapshot of store totals, re-queried after a run for the
// summary report.
type Counts struct {
	Brands      int64 `json:"brands"`
	Collections int64 `json:"collections"`
	Products    int64 `json:"products"`
	Images      int64 `json:"images"`
	Variants    int64 `json:"variants"`
	Documents   int64 `json:"documents"`
	Memberships int64 `json:"memberships"`
}
