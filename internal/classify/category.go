package classify

import "strings"

// CategoryRule maps one catalog category to the title keywords that select it.
// Rule order is significant: the table is scanned top to bottom and the first
// rule with a matching keyword wins, so more specific categories must precede
// general ones that share vocabulary ("washer dryer" before "washer").
type CategoryRule struct {
	Slug     string
	Display  string
	Keywords []string
}

// FallbackCategorySlug is returned when nothing in the table matches. The
// classifier never fails and never returns an empty category.
const (
	FallbackCategorySlug    = "small-appliances"
	FallbackCategoryDisplay = "Small Appliances"
)

var categoryRules = []CategoryRule{
	{"washer-dryers", "Washer Dryers", []string{"washer dryer", "washer-dryer", "washer/dryer"}},
	{"washing-machines", "Washing Machines", []string{"washing machine", "washer", "twin tub", "front load", "top load"}},
	{"refrigerators", "Refrigerators", []string{"refrigerator", "fridge", "side by side", "bottom freezer"}},
	{"freezers", "Freezers", []string{"chest freezer", "deep freezer", "freezer"}},
	{"air-conditioners", "Air Conditioners", []string{"air conditioner", "split ac", "aircon", "inverter ac"}},
	{"televisions", "Televisions", []string{"television", "smart tv", "led tv", "uhd tv", " tv"}},
	{"microwaves", "Microwaves", []string{"microwave"}},
	{"cookers-ovens", "Cookers & Ovens", []string{"gas cooker", "cooker", "oven", "gas stove", "hob"}},
	{"dishwashers", "Dishwashers", []string{"dishwasher", "dish washer"}},
	{"water-heaters", "Water Heaters", []string{"water heater", "geyser"}},
	{"fans", "Fans", []string{"standing fan", "ceiling fan", "rechargeable fan", "fan"}},
	{"blenders", "Blenders", []string{"blender", "smoothie maker", "food processor"}},
	{"kettles", "Kettles", []string{"kettle"}},
	{"irons", "Irons", []string{"steam iron", "dry iron", "pressing iron"}},
}

// source category labels that carry no classification signal
var uncategorizedLabels = map[string]bool{
	"":              true,
	"all":           true,
	"uncategorized": true,
	"other":         true,
	"default":       true,
}

var displayToSlug = func() map[string]string {
	m := make(map[string]string, len(categoryRules)+1)
	for _, r := range categoryRules {
		m[strings.ToLower(r.Display)] = r.Slug
	}
	m[strings.ToLower(FallbackCategoryDisplay)] = FallbackCategorySlug
	return m
}()

var slugToDisplay = func() map[string]string {
	m := make(map[string]string, len(categoryRules)+1)
	for _, r := range categoryRules {
		m[r.Slug] = r.Display
	}
	m[FallbackCategorySlug] = FallbackCategoryDisplay
	return m
}()

// Classify resolves a product's catalog category. A trustworthy source label
// is used directly; otherwise the name is matched against the ordered keyword
// table, falling back to the small-appliances bucket. Pure function.
func Classify(name, sourceLabel string) (slug, display string) {
	label := strings.ToLower(strings.TrimSpace(sourceLabel))
	if !uncategorizedLabels[label] {
		if s, ok := displayToSlug[label]; ok {
			return s, slugToDisplay[s]
		}
		if d, ok := slugToDisplay[label]; ok {
			return label, d
		}
	}

	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Slug, rule.Display
			}
		}
	}

	return FallbackCategorySlug, FallbackCategoryDisplay
}

// CategoryRules returns the ordered rule table. The pipeline uses it as the
// fixed set of collections every store must contain.
func CategoryRules() []CategoryRule {
	out := make([]CategoryRule, len(categoryRules), len(categoryRules)+1)
	copy(out, categoryRules)
	return append(out, CategoryRule{Slug: FallbackCategorySlug, Display: FallbackCategoryDisplay})
}
