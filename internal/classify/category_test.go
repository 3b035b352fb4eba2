package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTrustsSourceLabel(t *testing.T) {
	slug, display := Classify("Some random thing", "Washing Machines")
	assert.Equal(t, "washing-machines", slug)
	assert.Equal(t, "Washing Machines", display)

	// slugs are accepted as labels too
	slug, display = Classify("Some random thing", "refrigerators")
	assert.Equal(t, "refrigerators", slug)
	assert.Equal(t, "Refrigerators", display)
}

func TestClassifyIgnoresSentinelLabels(t *testing.T) {
	for _, label := range []string{"", "All", "all", "Uncategorized", "Other", "Default"} {
		slug, _ := Classify("Midea 7kg Washing Machine", label)
		assert.Equal(t, "washing-machines", slug, "label %q", label)
	}
}

func TestClassifyKeywordMatch(t *testing.T) {
	tests := []struct {
		name string
		slug string
	}{
		{"Midea 7kg Washing Machine", "washing-machines"},
		{"Hisense 420L Side by Side Fridge", "refrigerators"},
		{"Nasco 200L Chest Freezer", "freezers"},
		{"TCL 1.5HP Split AC Inverter", "air-conditioners"},
		{"Samsung 55 inch Smart TV", "televisions"},
		{"Binatone Standing Fan 16 inch", "fans"},
		{"Bruhm 4 Burner Gas Cooker", "cookers-ovens"},
		{"Kenwood Blender 1.5L", "blenders"},
	}
	for _, tt := range tests {
		slug, display := Classify(tt.name, "")
		assert.Equal(t, tt.slug, slug, tt.name)
		assert.NotEmpty(t, display)
	}
}

// Higher-priority categories must shadow lower-priority ones for overlapping
// vocabulary: "washer dryer" contains "washer", which also belongs to the
// washing-machines rule.
func TestClassifyPriorityOrder(t *testing.T) {
	slug, display := Classify("LG Washer Dryer Combo 10kg", "")
	assert.Equal(t, "washer-dryers", slug)
	assert.Equal(t, "Washer Dryers", display)

	slug, _ = Classify("LG Top Load Washer 8kg", "")
	assert.Equal(t, "washing-machines", slug)
}

func TestClassifyFallback(t *testing.T) {
	slug, display := Classify("Mystery Gadget 3000", "")
	assert.Equal(t, FallbackCategorySlug, slug)
	assert.Equal(t, FallbackCategoryDisplay, display)
}

func TestClassifyIsDeterministic(t *testing.T) {
	known := make(map[string]bool)
	for _, rule := range CategoryRules() {
		known[rule.Slug] = true
	}

	names := []string{
		"Midea 7kg Washing Machine",
		"Mystery Gadget 3000",
		"Samsung 55 inch Smart TV",
		"",
	}
	for _, name := range names {
		slug1, display1 := Classify(name, "")
		slug2, display2 := Classify(name, "")
		assert.Equal(t, slug1, slug2)
		assert.Equal(t, display1, display2)
		assert.True(t, known[slug1], "slug %q must be a table key", slug1)
	}
}
