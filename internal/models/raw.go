package models

import "time"

// RawProduct is the common intermediate shape every source adapter produces.
// It is untrusted external data: fields may be empty, mislabeled or missing,
// and it is consumed by the pipeline, never persisted verbatim.
type RawProduct struct {
	Name             string             `json:"name"`
	PriceDisplay     string             `json:"price_display"`
	PriceNumeric     float64            `json:"price_numeric"`
	CompareAtPrice   *float64           `json:"compare_at_price"`
	ImageURL         string             `json:"image_url"`
	Images           []RawImage         `json:"images"`
	Category         string             `json:"category"`
	Collection       string             `json:"collection"`
	SKU              string             `json:"sku"`
	EAN              string             `json:"ean"`
	Brand            string             `json:"brand"`
	Description      string             `json:"description"`
	ShortDescription string             `json:"short_description"`
	Specifications   []RawSpecification `json:"specifications"`
	Documents        []RawDocument      `json:"documents"`
	Variants         []RawVariant       `json:"variants"`
	InStock          bool               `json:"in_stock"`
	WeightKG         float64            `json:"weight_kg"`
	LengthCM         float64            `json:"length_cm"`
	WidthCM          float64            `json:"width_cm"`
	HeightCM         float64            `json:"height_cm"`
	CapturedAt       time.Time          `json:"captured_at"`
}

type RawImage struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"is_primary"`
}

type RawSpecification struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Scope string `json:"scope,omitempty"`
}

type RawDocument struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type RawVariant struct {
	Title    string  `json:"title"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
