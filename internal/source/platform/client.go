// Package platform pulls product listings from a third-party e-commerce
// platform's paginated REST API.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"catalog/internal/logger"
)

const (
	pageSize       = 100
	maxRetries     = 4
	retryBaseDelay = 500 * time.Millisecond
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

func NewClient(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// platform allows 120 requests per minute per token
		limiter: rate.NewLimiter(rate.Every(time.Minute/120), 10),
		log:     log,
	}
}

// listing payloads carry the records in a top-level array field
type productsResponse struct {
	Products []Product `json:"products"`
}

type Product struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Price            string          `json:"price"`
	PriceValue       float64         `json:"price_value"`
	CompareAtPrice   *float64        `json:"compare_at_price"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description"`
	SKU              string          `json:"sku"`
	EAN              string          `json:"ean"`
	Brand            string          `json:"brand"`
	Category         string          `json:"category"`
	Collection       string          `json:"collection"`
	MainImage        string          `json:"main_image"`
	Images           []Image         `json:"images"`
	Specifications   []Specification `json:"specifications"`
	Documents        []Document      `json:"documents"`
	Variants         []Variant       `json:"variants"`
	InStock          bool            `json:"in_stock"`
	Weight           float64         `json:"weight"`
	Length           float64         `json:"length"`
	Width            float64         `json:"width"`
	Height           float64         `json:"height"`
}

type Image struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Primary bool   `json:"primary"`
}

type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Group string `json:"group"`
}

type Document struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

type Variant struct {
	Title    string  `json:"title"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// GetProducts fetches one page of the product listing. An empty slice means
// pagination is exhausted.
func (c *Client) GetProducts(ctx context.Context, page int) ([]Product, error) {
	url := fmt.Sprintf("%s/products?page=%d&limit=%d", c.baseURL, page, pageSize)
	var resp productsResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// GetCollectionProducts fetches the members of one named grouping.
func (c *Client) GetCollectionProducts(ctx context.Context, handle string) ([]Product, error) {
	url := fmt.Sprintf("%s/collections/%s/products", c.baseURL, handle)
	var resp productsResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// getJSON performs a rate-limited GET with retry-with-backoff on throttling
// and transient server errors. Exhausting the retries is fatal to the Load
// stage.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			c.log.Warn("Retrying %s in %v (attempt %d/%d)", url, delay, attempt+1, maxRetries)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retryable, err := c.doRequest(ctx, url, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, url string, out interface{}) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return true, fmt.Errorf("API request failed: %s", resp.Status)
	default:
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return false, nil
}
