package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Brand struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Collection struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	Title     string    `json:"title" gorm:"not null"`
	Handle    string    `json:"handle" gorm:"uniqueIndex;not null"`
	IsVisible bool      `json:"is_visible" gorm:"default:true"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID                string          `json:"id" gorm:"type:uuid;primary_key"`
	Title             string          `json:"title" gorm:"not null"`
	Handle            string          `json:"handle" gorm:"uniqueIndex;not null"`
	Description       *string         `json:"description"`
	Vendor            string          `json:"vendor"`
	BrandID           *string         `json:"brand_id" gorm:"type:uuid"`
	Category          string          `json:"category"`
	Status            string          `json:"status" gorm:"default:active"`
	Tags              pq.StringArray  `json:"tags" gorm:"type:text[]"`
	Price             float64         `json:"price" gorm:"type:decimal(10,2)"`
	CompareAtPrice    *float64        `json:"compare_at_price" gorm:"type:decimal(10,2)"`
	Currency          string          `json:"currency" gorm:"default:USD"`
	SKU               *string         `json:"sku"`
	Barcode           *string         `json:"barcode"`
	InventoryQuantity int             `json:"inventory_quantity"`
	WeightGrams       int             `json:"weight_grams"`
	SEODescription    string          `json:"seo_description"`
	Specifications    []Specification `json:"specifications" gorm:"serializer:json"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type Specification struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Scope string `json:"scope,omitempty"`
}

type ProductImage struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	ProductID string    `json:"product_id" gorm:"type:uuid;index;not null"`
	URL       string    `json:"url" gorm:"not null"`
	Alt       string    `json:"alt"`
	Position  int       `json:"position"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductVariant rows exist only for products whose source reported more than
// one variant; single-variant products carry price/SKU/inventory directly.
type ProductVariant struct {
	ID                string    `json:"id" gorm:"type:uuid;primary_key"`
	ProductID         string    `json:"product_id" gorm:"type:uuid;index;not null"`
	Title             string    `json:"title"`
	SKU               string    `json:"sku"`
	Price             float64   `json:"price" gorm:"type:decimal(10,2)"`
	InventoryQuantity int       `json:"inventory_quantity"`
	Position          int       `json:"position"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type DocumentType string

const (
	DocumentTypeManual    DocumentType = "manual"
	DocumentTypeSpecSheet DocumentType = "spec-sheet"
	DocumentTypeWarranty  DocumentType = "warranty"
	DocumentTypeOther     DocumentType = "other"
)

// NormalizeDocumentType maps a free-form source document type onto the fixed
// enum, defaulting to DocumentTypeOther.
func NormalizeDocumentType(raw string) DocumentType {
	switch DocumentType(raw) {
	case DocumentTypeManual, DocumentTypeSpecSheet, DocumentTypeWarranty:
		return DocumentType(raw)
	default:
		return DocumentTypeOther
	}
}

type ProductDocument struct {
	ID        string       `json:"id" gorm:"type:uuid;primary_key"`
	ProductID string       `json:"product_id" gorm:"type:uuid;index;not null"`
	URL       string       `json:"url" gorm:"not null"`
	Title     string       `json:"title"`
	Type      DocumentType `json:"type" gorm:"default:other"`
	Position  int          `json:"position"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type CollectionMembership struct {
	ProductID    string    `json:"product_id" gorm:"type:uuid;primaryKey"`
	CollectionID string    `json:"collection_id" gorm:"type:uuid;primaryKey"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

func (d *ProductDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
