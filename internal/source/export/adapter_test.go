package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/logger"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFetchParsesExport(t *testing.T) {
	path := writeFixture(t, `[
		{
			"name": "Midea 7kg Washing Machine",
			"price_numeric": 299.99,
			"category": "All",
			"sku": "MID-7KG",
			"in_stock": true,
			"images": [{"url": "a.jpg", "is_primary": true}],
			"specifications": [{"key": "Capacity", "value": "7kg"}]
		},
		{
			"name": "Nasco Chest Freezer",
			"price_numeric": 450,
			"image_url": "freezer.jpg"
		}
	]`)

	adapter := New(path, logger.New("error"))
	records, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Midea 7kg Washing Machine", records[0].Name)
	assert.Equal(t, 299.99, records[0].PriceNumeric)
	assert.Equal(t, "MID-7KG", records[0].SKU)
	assert.True(t, records[0].InStock)
	require.Len(t, records[0].Images, 1)
	assert.True(t, records[0].Images[0].IsPrimary)
	require.Len(t, records[0].Specifications, 1)
	assert.Equal(t, "Capacity", records[0].Specifications[0].Key)

	assert.Equal(t, "freezer.jpg", records[1].ImageURL)
	assert.Empty(t, records[1].Images)
}

func TestFetchMissingFileIsFatal(t *testing.T) {
	adapter := New(filepath.Join(t.TempDir(), "nope.json"), logger.New("error"))
	_, err := adapter.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetchMalformedInputIsFatal(t *testing.T) {
	path := writeFixture(t, `{"not": "an array"}`)
	adapter := New(path, logger.New("error"))
	_, err := adapter.Fetch(context.Background())
	assert.Error(t, err)
}
