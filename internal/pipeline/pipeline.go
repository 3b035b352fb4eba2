// Package pipeline sequences a catalog import run: load the source batch,
// resolve brands and collections, hydrate the handle registry, then write
// every record's entity graph. One record's failure never aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog/internal/backup"
	"catalog/internal/classify"
	"catalog/internal/handle"
	"catalog/internal/logger"
	"catalog/internal/models"
	"catalog/internal/source"
	"catalog/internal/store"
)

const defaultWorkers = 4

type Pipeline struct {
	store    store.Store
	source   source.Adapter
	log      *logger.Logger
	events   *Publisher
	backup   *backup.Writer
	workers  int
	currency string
}

// Options carries the optional collaborators of a run; zero values disable
// them.
type Options struct {
	Events   *Publisher
	Backup   *backup.Writer
	Workers  int
	Currency string
}

func New(st store.Store, src source.Adapter, log *logger.Logger, opts Options) *Pipeline {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	currency := opts.Currency
	if currency == "" {
		currency = "USD"
	}
	return &Pipeline{
		store:    st,
		source:   src,
		log:      log,
		events:   opts.Events,
		backup:   opts.Backup,
		workers:  workers,
		currency: currency,
	}
}

// Report aggregates the per-stage counters of one run and the store totals
// re-queried at the end for verification.
type Report struct {
	mu sync.Mutex

	Source            string       `json:"source"`
	StartedAt         time.Time    `json:"started_at"`
	FinishedAt        time.Time    `json:"finished_at"`
	RecordsProcessed  int          `json:"records_processed"`
	ProductsImported  int          `json:"products_imported"`
	ImagesInserted    int          `json:"images_inserted"`
	VariantsInserted  int          `json:"variants_inserted"`
	MembershipsLinked int          `json:"memberships_linked"`
	DocumentsInserted int          `json:"documents_inserted"`
	RecordsWithSpecs  int          `json:"records_with_specs"`
	Errors            int          `json:"errors"`
	FinalCounts       store.Counts `json:"final_counts"`
}

func (r *Report) addError() {
	r.mu.Lock()
	r.Errors++
	r.mu.Unlock()
}

// Run executes the full import. Only a Load-stage failure returns an error;
// everything downstream is log-and-continue and lands in the report.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		Source:    p.source.Name(),
		StartedAt: time.Now(),
	}

	// Stage 1: load the full batch from the source
	records, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stage failed: %w", err)
	}
	p.log.Info("Loaded %d records from %s", len(records), p.source.Name())

	// Stage 2: upsert each distinct brand once, keep a name->id map
	brandIDs := p.resolveBrands(ctx, records, report)

	// Stage 3: read existing collections, create the required set if absent
	collectionIDs := p.resolveCollections(ctx, report)

	// Stage 4: hydrate the handle registry so new allocations never collide
	// with prior runs
	existingHandles, err := p.store.ListProductHandles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate handle registry: %w", err)
	}
	registry := handle.NewRegistry(existingHandles...)
	p.log.Info("Handle registry hydrated with %d existing handles", len(existingHandles))

	// Stage 5: per-record writes; brand/collection maps are read-only from
	// here on, the registry guards its own claims
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup
	for i, record := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(index int, rec models.RawProduct) {
			defer wg.Done()
			defer func() { <-sem }()
			p.processRecord(ctx, index, rec, brandIDs, collectionIDs, registry, report)
		}(i, record)
	}
	wg.Wait()

	// Stage 6: summarize and re-query final totals
	report.FinishedAt = time.Now()
	if counts, err := p.store.Counts(ctx); err != nil {
		p.log.Error("Failed to query final counts: %v", err)
	} else {
		report.FinalCounts = counts
	}

	p.log.Info("Import finished: %d records, %d products, %d images, %d links, %d documents, %d errors",
		report.RecordsProcessed, report.ProductsImported, report.ImagesInserted,
		report.MembershipsLinked, report.DocumentsInserted, report.Errors)

	if p.backup != nil {
		if err := p.backup.WriteSummary(report); err != nil {
			p.log.Error("Failed to write run summary: %v", err)
		}
	}

	return report, nil
}

// resolveBrands extracts a brand for every record, deduplicates the names and
// upserts each one once. A failed brand upsert leaves its products with a
// null brand reference rather than blocking the run.
func (p *Pipeline) resolveBrands(ctx context.Context, records []models.RawProduct, report *Report) map[string]string {
	distinct := make(map[string]struct{}, len(records))
	for _, record := range records {
		distinct[classify.ExtractBrand(record)] = struct{}{}
	}

	names := make([]string, 0, len(distinct))
	for name := range distinct {
		names = append(names, name)
	}
	sort.Strings(names)

	brandIDs := make(map[string]string, len(names))
	for _, name := range names {
		id, err := p.store.UpsertBrand(ctx, &models.Brand{
			Name: name,
			Slug: handle.Slugify(name),
		})
		if err != nil {
			p.log.Error("Failed to upsert brand %q: %v", name, err)
			report.addError()
			continue
		}
		brandIDs[name] = id
	}

	p.log.Info("Resolved %d distinct brands", len(brandIDs))
	return brandIDs
}

// resolveCollections reuses what the store already has and creates any
// required collection that is missing, returning a handle->id map.
func (p *Pipeline) resolveCollections(ctx context.Context, report *Report) map[string]string {
	collectionIDs := make(map[string]string)

	existing, err := p.store.ListCollections(ctx)
	if err != nil {
		p.log.Error("Failed to list collections: %v", err)
		report.addError()
	}
	for _, c := range existing {
		collectionIDs[c.Handle] = c.ID
	}

	for i, rule := range classify.CategoryRules() {
		if _, ok := collectionIDs[rule.Slug]; ok {
			continue
		}
		id, err := p.store.UpsertCollection(ctx, &models.Collection{
			Title:     rule.Display,
			Handle:    rule.Slug,
			IsVisible: true,
			SortOrder: i + 1,
		})
		if err != nil {
			p.log.Error("Failed to upsert collection %q: %v", rule.Slug, err)
			report.addError()
			continue
		}
		collectionIDs[rule.Slug] = id
	}

	p.log.Info("Resolved %d collections", len(collectionIDs))
	return collectionIDs
}

// processRecord writes one record's product, images, variants, membership and
// documents. Sub-step failures are counted and logged with the record's name
// and index; later sub-steps still run where their inputs exist.
func (p *Pipeline) processRecord(
	ctx context.Context,
	index int,
	rec models.RawProduct,
	brandIDs map[string]string,
	collectionIDs map[string]string,
	registry *handle.Registry,
	report *Report,
) {
	defer func() {
		report.mu.Lock()
		report.RecordsProcessed++
		report.mu.Unlock()
	}()

	categorySlug, categoryDisplay := classify.Classify(rec.Name, rec.Category)
	brandName := classify.ExtractBrand(rec)

	product := p.buildProduct(rec, categorySlug, categoryDisplay, brandName, brandIDs, registry)

	productID, err := p.store.UpsertProduct(ctx, product)
	if err != nil {
		p.log.Error("Record %d (%s): product write failed: %v", index, rec.Name, err)
		report.addError()
		return
	}

	images := buildImages(rec)
	inserted, err := p.store.ReplaceProductImages(ctx, productID, images)
	report.mu.Lock()
	report.ImagesInserted += inserted
	report.mu.Unlock()
	if err != nil {
		p.log.Error("Record %d (%s): image write failed: %v", index, rec.Name, err)
		report.addError()
	}

	// variants only materialize when the source reports more than one
	if len(rec.Variants) > 1 {
		insertedVariants, err := p.store.ReplaceProductVariants(ctx, productID, buildVariants(rec))
		report.mu.Lock()
		report.VariantsInserted += insertedVariants
		report.mu.Unlock()
		if err != nil {
			p.log.Error("Record %d (%s): variant write failed: %v", index, rec.Name, err)
			report.addError()
		}
	}

	collectionID := p.resolveCollectionTarget(rec, categorySlug, collectionIDs)
	if collectionID != "" {
		err := p.store.UpsertMembership(ctx, &models.CollectionMembership{
			ProductID:    productID,
			CollectionID: collectionID,
			Position:     index + 1,
		})
		if err != nil {
			p.log.Error("Record %d (%s): membership write failed: %v", index, rec.Name, err)
			report.addError()
		} else {
			report.mu.Lock()
			report.MembershipsLinked++
			report.mu.Unlock()
		}
	}

	for docIndex, doc := range rec.Documents {
		if doc.URL == "" {
			continue
		}
		err := p.store.UpsertDocument(ctx, &models.ProductDocument{
			ProductID: productID,
			URL:       doc.URL,
			Title:     doc.Title,
			Type:      models.NormalizeDocumentType(doc.Type),
			Position:  docIndex + 1,
		})
		if err != nil {
			p.log.Error("Record %d (%s): document write failed: %v", index, rec.Name, err)
			report.addError()
			continue
		}
		report.mu.Lock()
		report.DocumentsInserted++
		report.mu.Unlock()
	}

	report.mu.Lock()
	report.ProductsImported++
	if len(rec.Specifications) > 0 {
		report.RecordsWithSpecs++
	}
	report.mu.Unlock()

	if p.events != nil {
		imageURL := ""
		if len(images) > 0 {
			imageURL = images[0].URL
		}
		if err := p.events.ProductImported(ctx, product, imageURL); err != nil {
			p.log.Warn("Record %d (%s): event publish failed: %v", index, rec.Name, err)
		}
	}
}

func (p *Pipeline) buildProduct(
	rec models.RawProduct,
	categorySlug, categoryDisplay, brandName string,
	brandIDs map[string]string,
	registry *handle.Registry,
) *models.Product {
	product := &models.Product{
		Title:          strings.TrimSpace(rec.Name),
		Handle:         registry.Allocate(rec.Name, rec.SKU),
		Vendor:         brandName,
		Category:       categorySlug,
		Status:         "active",
		Tags:           []string{categoryDisplay, brandName},
		Price:          rec.PriceNumeric,
		CompareAtPrice: rec.CompareAtPrice,
		Currency:       p.currency,
		WeightGrams:    int(rec.WeightKG * 1000),
		SEODescription: seoDescription(rec),
	}

	if id, ok := brandIDs[brandName]; ok {
		brandID := id
		product.BrandID = &brandID
	}
	if rec.Description != "" {
		description := rec.Description
		product.Description = &description
	}
	if rec.SKU != "" {
		sku := rec.SKU
		product.SKU = &sku
	}
	if rec.EAN != "" {
		barcode := rec.EAN
		product.Barcode = &barcode
	}
	if rec.InStock {
		product.InventoryQuantity = 100
	}

	for _, spec := range rec.Specifications {
		product.Specifications = append(product.Specifications, models.Specification{
			Key:   spec.Key,
			Value: spec.Value,
			Scope: spec.Scope,
		})
	}

	return product
}

// resolveCollectionTarget prefers an explicit source collection label that
// maps to a known collection, then the classified category's collection.
func (p *Pipeline) resolveCollectionTarget(rec models.RawProduct, categorySlug string, collectionIDs map[string]string) string {
	if rec.Collection != "" {
		if id, ok := collectionIDs[handle.Slugify(rec.Collection)]; ok {
			return id
		}
	}
	return collectionIDs[categorySlug]
}

// buildImages deduplicates the source image list by URL and positions the
// result 1..N, falling back to the single primary image field when the list
// is empty. Exactly one image ends up flagged primary.
func buildImages(rec models.RawProduct) []models.ProductImage {
	raw := rec.Images
	if len(raw) == 0 && rec.ImageURL != "" {
		raw = []models.RawImage{{URL: rec.ImageURL, IsPrimary: true}}
	}

	seen := make(map[string]struct{}, len(raw))
	images := make([]models.ProductImage, 0, len(raw))
	primaryTaken := false
	for _, img := range raw {
		if img.URL == "" {
			continue
		}
		if _, dup := seen[img.URL]; dup {
			continue
		}
		seen[img.URL] = struct{}{}

		primary := img.IsPrimary && !primaryTaken
		if primary {
			primaryTaken = true
		}
		images = append(images, models.ProductImage{
			URL:       img.URL,
			Alt:       img.Alt,
			Position:  len(images) + 1,
			IsPrimary: primary,
		})
	}

	if !primaryTaken && len(images) > 0 {
		images[0].IsPrimary = true
	}
	return images
}

func buildVariants(rec models.RawProduct) []models.ProductVariant {
	variants := make([]models.ProductVariant, len(rec.Variants))
	for i, v := range rec.Variants {
		variants[i] = models.ProductVariant{
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             v.Price,
			InventoryQuantity: v.Quantity,
			Position:          i + 1,
		}
	}
	return variants
}

// seoDescription prefers the short description and otherwise truncates the
// plain description.
func seoDescription(rec models.RawProduct) string {
	text := strings.TrimSpace(rec.ShortDescription)
	if text == "" {
		text = strings.TrimSpace(rec.Description)
	}
	if len(text) > 160 {
		text = text[:160]
	}
	return text
}
