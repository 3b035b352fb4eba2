package handle

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Midea 7kg Washing Machine", "midea-7kg-washing-machine"},
		{"  --Hello!! World--  ", "hello-world"},
		{"Café & Crème", "caf-cr-me"},
		{"UPPER case", "upper-case"},
		{"!!!", "product"},
		{"", "product"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("abcde ", 30)
	slug := Slugify(long)
	assert.LessOrEqual(t, len(slug), MaxLength)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestAllocateClaimsHandle(t *testing.T) {
	r := NewRegistry()
	h := r.Allocate("Midea Fan", "")
	assert.Equal(t, "midea-fan", h)
	assert.True(t, r.Has(h))
}

func TestAllocateNumericSuffixOrder(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "midea-fan", r.Allocate("Midea Fan", ""))
	assert.Equal(t, "midea-fan-2", r.Allocate("Midea Fan", ""))
	assert.Equal(t, "midea-fan-3", r.Allocate("Midea Fan", ""))
}

func TestAllocatePrefersDisambiguator(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "midea-fan", r.Allocate("Midea Fan", ""))
	assert.Equal(t, "midea-fan-mf-01", r.Allocate("Midea Fan", "MF-01"))

	// short disambiguators are ignored
	assert.Equal(t, "midea-fan-2", r.Allocate("Midea Fan", "X1"))
}

func TestAllocateReusesPersistedHandle(t *testing.T) {
	// a handle hydrated from the store is claimed once so the product upsert
	// updates that row instead of creating a suffixed duplicate
	r := NewRegistry("midea-fan")
	assert.Equal(t, "midea-fan", r.Allocate("Midea Fan", ""))
	assert.Equal(t, "midea-fan-2", r.Allocate("Midea Fan", ""))
}

func TestAllocatePairwiseDistinct(t *testing.T) {
	r := NewRegistry()
	seen := make(map[string]bool)
	names := []string{"Fan", "Fan", "Fan!", "fan", "TV Stand", "TV-Stand", ""}
	for _, name := range names {
		h := r.Allocate(name, "")
		assert.False(t, seen[h], "duplicate handle %q", h)
		assert.True(t, r.Has(h))
		seen[h] = true
	}
}

func TestAllocateConcurrent(t *testing.T) {
	r := NewRegistry()
	const n = 100

	var mu sync.Mutex
	var wg sync.WaitGroup
	seen := make(map[string]bool, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h := r.Allocate("Popular Product", fmt.Sprintf("SKU-%03d", i))
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[h], "duplicate handle %q", h)
			seen[h] = true
		}(i)
	}
	wg.Wait()

	assert.Len(t, seen, n)
}
