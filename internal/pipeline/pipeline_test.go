package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/logger"
	"catalog/internal/models"
	"catalog/internal/store"
)

// fakeAdapter serves a fixed batch, or fails the Load stage.
type fakeAdapter struct {
	records []models.RawProduct
	err     error
}

func (f *fakeAdapter) Name() string { return "fake" }

func (f *fakeAdapter) Fetch(ctx context.Context) ([]models.RawProduct, error) {
	return f.records, f.err
}

// fakeStore is an in-memory Store keyed the same way the real one is.
type fakeStore struct {
	mu          sync.Mutex
	brands      map[string]*models.Brand      // by slug
	collections map[string]*models.Collection // by handle
	products    map[string]*models.Product    // by handle
	images      map[string][]models.ProductImage
	variants    map[string][]models.ProductVariant
	documents   map[string]map[string]*models.ProductDocument
	memberships map[string]*models.CollectionMembership

	failImagesForHandle string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		brands:      make(map[string]*models.Brand),
		collections: make(map[string]*models.Collection),
		products:    make(map[string]*models.Product),
		images:      make(map[string][]models.ProductImage),
		variants:    make(map[string][]models.ProductVariant),
		documents:   make(map[string]map[string]*models.ProductDocument),
		memberships: make(map[string]*models.CollectionMembership),
	}
}

func (s *fakeStore) UpsertBrand(ctx context.Context, brand *models.Brand) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.brands[brand.Slug]; ok {
		existing.Name = brand.Name
		return existing.ID, nil
	}
	brand.ID = uuid.New().String()
	s.brands[brand.Slug] = brand
	return brand.ID, nil
}

func (s *fakeStore) UpsertCollection(ctx context.Context, collection *models.Collection) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.collections[collection.Handle]; ok {
		existing.Title = collection.Title
		return existing.ID, nil
	}
	collection.ID = uuid.New().String()
	s.collections[collection.Handle] = collection
	return collection.ID, nil
}

func (s *fakeStore) ListCollections(ctx context.Context) ([]models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeStore) ListProductHandles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.products))
	for h := range s.products {
		out = append(out, h)
	}
	return out, nil
}

func (s *fakeStore) UpsertProduct(ctx context.Context, product *models.Product) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.products[product.Handle]; ok {
		product.ID = existing.ID
		s.products[product.Handle] = product
		return existing.ID, nil
	}
	product.ID = uuid.New().String()
	s.products[product.Handle] = product
	return product.ID, nil
}

func (s *fakeStore) ReplaceProductImages(ctx context.Context, productID string, images []models.ProductImage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failImagesForHandle != "" {
		for handle, p := range s.products {
			if p.ID == productID && handle == s.failImagesForHandle {
				return 0, fmt.Errorf("forced image failure")
			}
		}
	}
	s.images[productID] = images
	return len(images), nil
}

func (s *fakeStore) ReplaceProductVariants(ctx context.Context, productID string, variants []models.ProductVariant) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variants[productID] = variants
	return len(variants), nil
}

func (s *fakeStore) UpsertDocument(ctx context.Context, doc *models.ProductDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.documents[doc.ProductID] == nil {
		s.documents[doc.ProductID] = make(map[string]*models.ProductDocument)
	}
	s.documents[doc.ProductID][doc.URL] = doc
	return nil
}

func (s *fakeStore) UpsertMembership(ctx context.Context, membership *models.CollectionMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membership.ProductID + "/" + membership.CollectionID
	if existing, ok := s.memberships[key]; ok {
		existing.Position = membership.Position
		return nil
	}
	s.memberships[key] = membership
	return nil
}

func (s *fakeStore) Counts(ctx context.Context) (store.Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := store.Counts{
		Brands:      int64(len(s.brands)),
		Collections: int64(len(s.collections)),
		Products:    int64(len(s.products)),
		Memberships: int64(len(s.memberships)),
	}
	for _, imgs := range s.images {
		counts.Images += int64(len(imgs))
	}
	for _, vs := range s.variants {
		counts.Variants += int64(len(vs))
	}
	for _, docs := range s.documents {
		counts.Documents += int64(len(docs))
	}
	return counts, nil
}

func testLogger() *logger.Logger {
	return logger.New("error")
}

func mideaRecord() models.RawProduct {
	return models.RawProduct{
		Name:         "Midea 7kg Washing Machine",
		PriceNumeric: 299.99,
		Category:     "All",
		Images:       []models.RawImage{{URL: "a.jpg", IsPrimary: true}},
		SKU:          "MID-7KG",
		InStock:      true,
	}
}

func TestRunEndToEnd(t *testing.T) {
	st := newFakeStore()
	p := New(st, &fakeAdapter{records: []models.RawProduct{mideaRecord()}}, testLogger(), Options{})

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.RecordsProcessed)
	assert.Equal(t, 1, report.ProductsImported)
	assert.Equal(t, 1, report.ImagesInserted)
	assert.Equal(t, 1, report.MembershipsLinked)
	assert.Equal(t, 0, report.Errors)

	brand, ok := st.brands["midea"]
	require.True(t, ok)
	assert.Equal(t, "Midea", brand.Name)

	product, ok := st.products["midea-7kg-washing-machine"]
	require.True(t, ok)
	assert.Equal(t, 299.99, product.Price)
	assert.Equal(t, "washing-machines", product.Category)
	assert.Equal(t, "Midea", product.Vendor)
	require.NotNil(t, product.BrandID)
	assert.Equal(t, brand.ID, *product.BrandID)
	require.NotNil(t, product.SKU)
	assert.Equal(t, "MID-7KG", *product.SKU)

	images := st.images[product.ID]
	require.Len(t, images, 1)
	assert.Equal(t, "a.jpg", images[0].URL)
	assert.Equal(t, 1, images[0].Position)
	assert.True(t, images[0].IsPrimary)

	collection, ok := st.collections["washing-machines"]
	require.True(t, ok)
	_, linked := st.memberships[product.ID+"/"+collection.ID]
	assert.True(t, linked)
}

func TestRunIsIdempotent(t *testing.T) {
	st := newFakeStore()
	adapter := &fakeAdapter{records: []models.RawProduct{
		mideaRecord(),
		{
			Name:         "Nasco 200L Chest Freezer",
			PriceNumeric: 450,
			ImageURL:     "freezer.jpg",
			Documents:    []models.RawDocument{{URL: "manual.pdf", Title: "User Manual", Type: "manual"}},
		},
	}}

	_, err := New(st, adapter, testLogger(), Options{}).Run(context.Background())
	require.NoError(t, err)
	first, err := st.Counts(context.Background())
	require.NoError(t, err)

	report, err := New(st, adapter, testLogger(), Options{}).Run(context.Background())
	require.NoError(t, err)
	second, err := st.Counts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, first.Brands, second.Brands)
	assert.Equal(t, first.Collections, second.Collections)
	assert.Equal(t, first.Products, second.Products)
	assert.Equal(t, first.Images, second.Images)
	assert.Equal(t, first.Documents, second.Documents)
	assert.Equal(t, first.Memberships, second.Memberships)
}

func TestRunPartialFailureIsolation(t *testing.T) {
	st := newFakeStore()
	st.failImagesForHandle = "midea-7kg-washing-machine"

	adapter := &fakeAdapter{records: []models.RawProduct{
		mideaRecord(),
		{
			Name:         "Hisense 420L Fridge",
			PriceNumeric: 899,
			ImageURL:     "fridge.jpg",
		},
	}}

	report, err := New(st, adapter, testLogger(), Options{}).Run(context.Background())
	require.NoError(t, err)

	// the failing image write costs exactly one error; the product row and
	// the rest of the batch still land
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 2, report.RecordsProcessed)
	assert.Equal(t, 2, report.ProductsImported)
	assert.Equal(t, 1, report.ImagesInserted)

	product, ok := st.products["midea-7kg-washing-machine"]
	require.True(t, ok)
	assert.Equal(t, 299.99, product.Price)

	_, ok = st.products["hisense-420l-fridge"]
	assert.True(t, ok)
}

func TestRunLoadFailureIsFatal(t *testing.T) {
	st := newFakeStore()
	p := New(st, &fakeAdapter{err: fmt.Errorf("connection refused")}, testLogger(), Options{})

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load stage failed")
}

func TestRunMaterializesVariantsOnlyWhenMultiple(t *testing.T) {
	st := newFakeStore()
	adapter := &fakeAdapter{records: []models.RawProduct{
		{
			Name:         "Kenwood Blender 1.5L",
			PriceNumeric: 120,
			Variants:     []models.RawVariant{{Title: "Default", SKU: "KB-15", Price: 120, Quantity: 5}},
		},
		{
			Name:         "Bruhm 4 Burner Gas Cooker",
			PriceNumeric: 700,
			Variants: []models.RawVariant{
				{Title: "Silver", SKU: "BG-4S", Price: 700, Quantity: 3},
				{Title: "Black", SKU: "BG-4B", Price: 720, Quantity: 2},
			},
		},
	}}

	report, err := New(st, adapter, testLogger(), Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, 2, report.VariantsInserted)

	blender := st.products["kenwood-blender-1-5l"]
	require.NotNil(t, blender)
	assert.Empty(t, st.variants[blender.ID])

	cooker := st.products["bruhm-4-burner-gas-cooker"]
	require.NotNil(t, cooker)
	assert.Len(t, st.variants[cooker.ID], 2)
}

func TestBuildImagesDeduplicatesAndPositions(t *testing.T) {
	rec := models.RawProduct{
		Images: []models.RawImage{
			{URL: "a.jpg"},
			{URL: "b.jpg", IsPrimary: true},
			{URL: "a.jpg", Alt: "duplicate"},
			{URL: "c.jpg"},
		},
	}
	images := buildImages(rec)
	require.Len(t, images, 3)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, []string{images[0].URL, images[1].URL, images[2].URL})
	for i, img := range images {
		assert.Equal(t, i+1, img.Position)
	}
	assert.False(t, images[0].IsPrimary)
	assert.True(t, images[1].IsPrimary)
}

func TestBuildImagesFallsBackToPrimaryURL(t *testing.T) {
	images := buildImages(models.RawProduct{ImageURL: "only.jpg"})
	require.Len(t, images, 1)
	assert.Equal(t, "only.jpg", images[0].URL)
	assert.Equal(t, 1, images[0].Position)
	assert.True(t, images[0].IsPrimary)

	assert.Empty(t, buildImages(models.RawProduct{}))
}
