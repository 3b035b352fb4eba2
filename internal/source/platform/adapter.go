package platform

import (
	"context"
	"strconv"
	"strings"
	"time"

	"catalog/internal/logger"
	"catalog/internal/models"
)

type Adapter struct {
	client    *Client
	log       *logger.Logger
	groupings []string
}

// NewAdapter wraps a platform client. Groupings are the named platform
// collections whose membership is fetched to label records that the listing
// endpoint leaves unassigned.
func NewAdapter(client *Client, log *logger.Logger, groupings ...string) *Adapter {
	return &Adapter{
		client:    client,
		log:       log,
		groupings: groupings,
	}
}

func (a *Adapter) Name() string {
	return "platform"
}

// Fetch walks the listing pages until an empty page comes back and normalizes
// every record into the pipeline's common shape.
func (a *Adapter) Fetch(ctx context.Context) ([]models.RawProduct, error) {
	var records []models.RawProduct
	indexByID := make(map[int64]int)

	for page := 1; ; page++ {
		products, err := a.client.GetProducts(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(products) == 0 {
			break
		}

		a.log.Debug("Fetched page %d with %d products", page, len(products))
		for _, p := range products {
			indexByID[p.ID] = len(records)
			records = append(records, transformProduct(p))
		}
	}

	// grouping membership labels records the listing leaves unassigned
	for _, grouping := range a.groupings {
		members, err := a.client.GetCollectionProducts(ctx, grouping)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if idx, ok := indexByID[m.ID]; ok && records[idx].Collection == "" {
				records[idx].Collection = grouping
			}
		}
	}

	a.log.Info("Fetched %d records from platform API", len(records))
	return records, nil
}

// transformProduct converts one platform product to the canonical raw shape.
func transformProduct(p Product) models.RawProduct {
	price := p.PriceValue
	if price == 0 {
		price = parsePrice(p.Price)
	}

	images := make([]models.RawImage, len(p.Images))
	for i, img := range p.Images {
		images[i] = models.RawImage{
			URL:       img.Src,
			Alt:       img.Alt,
			IsPrimary: img.Primary,
		}
	}

	specs := make([]models.RawSpecification, len(p.Specifications))
	for i, s := range p.Specifications {
		specs[i] = models.RawSpecification{
			Key:   s.Name,
			Value: s.Value,
			Scope: s.Group,
		}
	}

	docs := make([]models.RawDocument, len(p.Documents))
	for i, d := range p.Documents {
		docs[i] = models.RawDocument{
			URL:   d.URL,
			Title: d.Title,
			Type:  d.Type,
		}
	}

	variants := make([]models.RawVariant, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = models.RawVariant{
			Title:    v.Title,
			SKU:      v.SKU,
			Price:    v.Price,
			Quantity: v.Quantity,
		}
	}

	return models.RawProduct{
		Name:             p.Name,
		PriceDisplay:     p.Price,
		PriceNumeric:     price,
		CompareAtPrice:   p.CompareAtPrice,
		ImageURL:         p.MainImage,
		Images:           images,
		Category:         p.Category,
		Collection:       p.Collection,
		SKU:              p.SKU,
		EAN:              p.EAN,
		Brand:            p.Brand,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Specifications:   specs,
		Documents:        docs,
		Variants:         variants,
		InStock:          p.InStock,
		WeightKG:         p.Weight,
		LengthCM:         p.Length,
		WidthCM:          p.Width,
		HeightCM:         p.Height,
		CapturedAt:       time.Now(),
	}
}

// parsePrice pulls a numeric value out of a display price like "GHS 1,299.00".
func parsePrice(display string) float64 {
	var b strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return value
}
