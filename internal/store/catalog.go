package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// CatalogStore implements Store on top of gorm (postgres in production,
// sqlite for development).
type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) UpsertBrand(ctx context.Context, brand *models.Brand) (string, error) {
	var existing models.Brand
	err := s.db.WithContext(ctx).First(&existing, "slug = ?", brand.Slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(brand).Error; err != nil {
			return "", fmt.Errorf("failed to create brand %q: %w", brand.Slug, err)
		}
		return brand.ID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up brand %q: %w", brand.Slug, err)
	}

	if existing.Name != brand.Name {
		existing.Name = brand.Name
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return "", fmt.Errorf("failed to update brand %q: %w", brand.Slug, err)
		}
	}
	return existing.ID, nil
}

func (s *CatalogStore) UpsertCollection(ctx context.Context, collection *models.Collection) (string, error) {
	var existing models.Collection
	err := s.db.WithContext(ctx).First(&existing, "handle = ?", collection.Handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(collection).Error; err != nil {
			return "", fmt.Errorf("failed to create collection %q: %w", collection.Handle, err)
		}
		return collection.ID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up collection %q: %w", collection.Handle, err)
	}

	existing.Title = collection.Title
	existing.IsVisible = collection.IsVisible
	existing.SortOrder = collection.SortOrder
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return "", fmt.Errorf("failed to update collection %q: %w", collection.Handle, err)
	}
	return existing.ID, nil
}

func (s *CatalogStore) ListCollections(ctx context.Context) ([]models.Collection, error) {
	var collections []models.Collection
	if err := s.db.WithContext(ctx).Order("sort_order").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

func (s *CatalogStore) ListProductHandles(ctx context.Context) ([]string, error) {
	var handles []string
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Pluck("handle", &handles).Error; err != nil {
		return nil, fmt.Errorf("failed to list product handles: %w", err)
	}
	return handles, nil
}

// UpsertProduct overwrites every scalar field of an existing row with the
// same handle, so stale values from a prior run are corrected rather than
// merged around.
func (s *CatalogStore) UpsertProduct(ctx context.Context, product *models.Product) (string, error) {
	var existing models.Product
	err := s.db.WithContext(ctx).First(&existing, "handle = ?", product.Handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
			return "", fmt.Errorf("failed to create product %q: %w", product.Handle, err)
		}
		return product.ID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up product %q: %w", product.Handle, err)
	}

	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return "", fmt.Errorf("failed to update product %q: %w", product.Handle, err)
	}
	return product.ID, nil
}

// ReplaceProductImages clears the product's image set and inserts the given
// list, already deduplicated and positioned 1..N by the caller. Delete-then-
// reinsert keeps re-runs from accumulating duplicate image rows.
func (s *CatalogStore) ReplaceProductImages(ctx context.Context, productID string, images []models.ProductImage) (int, error) {
	if err := s.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return 0, fmt.Errorf("failed to clear images for product %s: %w", productID, err)
	}
	inserted := 0
	for i := range images {
		images[i].ProductID = productID
		if err := s.db.WithContext(ctx).Create(&images[i]).Error; err != nil {
			return inserted, fmt.Errorf("failed to insert image %q: %w", images[i].URL, err)
		}
		inserted++
	}
	return inserted, nil
}

func (s *CatalogStore) ReplaceProductVariants(ctx context.Context, productID string, variants []models.ProductVariant) (int, error) {
	if err := s.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
		return 0, fmt.Errorf("failed to clear variants for product %s: %w", productID, err)
	}
	inserted := 0
	for i := range variants {
		variants[i].ProductID = productID
		if err := s.db.WithContext(ctx).Create(&variants[i]).Error; err != nil {
			return inserted, fmt.Errorf("failed to insert variant %q: %w", variants[i].SKU, err)
		}
		inserted++
	}
	return inserted, nil
}

// UpsertDocument is keyed on (product, url).
func (s *CatalogStore) UpsertDocument(ctx context.Context, doc *models.ProductDocument) error {
	var existing models.ProductDocument
	err := s.db.WithContext(ctx).
		First(&existing, "product_id = ? AND url = ?", doc.ProductID, doc.URL).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
			return fmt.Errorf("failed to create document %q: %w", doc.URL, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up document %q: %w", doc.URL, err)
	}

	existing.Title = doc.Title
	existing.Type = doc.Type
	existing.Position = doc.Position
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update document %q: %w", doc.URL, err)
	}
	return nil
}

// UpsertMembership is keyed on the (product, collection) pair.
func (s *CatalogStore) UpsertMembership(ctx context.Context, membership *models.CollectionMembership) error {
	var existing models.CollectionMembership
	err := s.db.WithContext(ctx).
		First(&existing, "product_id = ? AND collection_id = ?", membership.ProductID, membership.CollectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(membership).Error; err != nil {
			return fmt.Errorf("failed to create membership %s/%s: %w", membership.ProductID, membership.CollectionID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up membership %s/%s: %w", membership.ProductID, membership.CollectionID, err)
	}

	if existing.Position != membership.Position {
		err := s.db.WithContext(ctx).Model(&models.CollectionMembership{}).
			Where("product_id = ? AND collection_id = ?", membership.ProductID, membership.CollectionID).
			Update("position", membership.Position).Error
		if err != nil {
			return fmt.Errorf("failed to update membership %s/%s: %w", membership.ProductID, membership.CollectionID, err)
		}
	}
	return nil
}

func (s *CatalogStore) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	tables := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Brand{}, &counts.Brands},
		{&models.Collection{}, &counts.Collections},
		{&models.Product{}, &counts.Products},
		{&models.ProductImage{}, &counts.Images},
		{&models.ProductVariant{}, &counts.Variants},
		{&models.ProductDocument{}, &counts.Documents},
		{&models.CollectionMembership{}, &counts.Memberships},
	}
	for _, t := range tables {
		if err := s.db.WithContext(ctx).Model(t.model).Count(t.dest).Error; err != nil {
			return counts, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return counts, nil
}
