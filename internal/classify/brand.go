package classify

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"catalog/internal/models"
)

// FallbackBrand is the sentinel house vendor used when every extraction
// strategy comes up empty.
const FallbackBrand = "Generic"

// knownBrands is the static table of brand names recognized in product
// titles. Entries keep their canonical casing.
var knownBrands = []string{
	"Midea",
	"Hisense",
	"LG",
	"Samsung",
	"Bosch",
	"Beko",
	"Panasonic",
	"Philips",
	"Haier Thermocool",
	"Thermocool",
	"Binatone",
	"Bruhm",
	"Nasco",
	"TCL",
	"Kenwood",
	"Russell Hobbs",
	"Scanfrost",
	"Polystar",
	"Maxi",
	"Nexus",
	"Skyrun",
	"Syinix",
	"Ariston",
}

// knownBrandsByLength is knownBrands ordered longest-first so that the most
// specific prefix wins ("Haier Thermocool" before "Thermocool"); ties keep
// table order.
var knownBrandsByLength = func() []string {
	out := make([]string, len(knownBrands))
	copy(out, knownBrands)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}()

// words that a description scrape must never mistake for a brand
var brandStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "new": true, "original": true,
	"quality": true, "generic": true, "unbranded": true, "none": true,
	"na": true, "no": true, "yes": true, "brand": true,
}

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	brandLabelPattern = regexp.MustCompile(`(?i)\bbrand\b\s*[:：]\s*([^\n\r]+)`)
	// attribute labels that terminate the brand value in free text
	attributeLabelPattern = regexp.MustCompile(`(?i)\b(style|colou?r|size|material|voltage|model|capacity|weight|warranty|type|origin)\b\s*[:：]`)
	nonAlnumPattern       = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)
)

// a cases.Caser carries internal state, so build one per call
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

type brandStrategy func(models.RawProduct) string

// extraction strategies in priority order; the first usable result wins
var brandStrategies = []brandStrategy{
	brandFromField,
	brandFromDescription,
	brandFromSpecifications,
	brandFromTitlePrefix,
	brandFromFirstWord,
}

// ExtractBrand resolves the brand name for a raw record. It runs the strategy
// cascade in order and falls back to the sentinel house brand, so the result
// is never empty. Deterministic for a given record.
func ExtractBrand(record models.RawProduct) string {
	for _, strategy := range brandStrategies {
		if candidate := strings.TrimSpace(strategy(record)); usableBrand(candidate) {
			return canonicalBrand(candidate)
		}
	}
	return FallbackBrand
}

func usableBrand(candidate string) bool {
	return len(candidate) > 1
}

// canonicalBrand prefers the known table's casing and otherwise title-cases.
func canonicalBrand(candidate string) string {
	for _, known := range knownBrands {
		if strings.EqualFold(known, candidate) {
			return known
		}
	}
	return titleCase(candidate)
}

func brandFromField(record models.RawProduct) string {
	return record.Brand
}

// brandFromDescription scrapes a "Brand:" label out of the free-text
// description. The value runs until the next recognized attribute label or
// line break, is stripped to alphanumerics and rejected when it is a stopword
// or outside the 2-30 character window.
func brandFromDescription(record models.RawProduct) string {
	if record.Description == "" {
		return ""
	}
	text := htmlTagPattern.ReplaceAllString(record.Description, "\n")

	m := brandLabelPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	value := m[1]
	if loc := attributeLabelPattern.FindStringIndex(value); loc != nil {
		value = value[:loc[0]]
	}
	value = strings.TrimSpace(nonAlnumPattern.ReplaceAllString(value, " "))
	value = strings.Join(strings.Fields(value), " ")

	if len(value) < 2 || len(value) > 30 {
		return ""
	}
	if brandStopwords[strings.ToLower(value)] {
		return ""
	}
	return value
}

func brandFromSpecifications(record models.RawProduct) string {
	for _, spec := range record.Specifications {
		key := strings.ToLower(spec.Key)
		if strings.Contains(key, "brand") || strings.Contains(key, "manufacturer") {
			value := strings.TrimSpace(spec.Value)
			if len(value) > 1 && !brandStopwords[strings.ToLower(value)] {
				return value
			}
		}
	}
	return ""
}

func brandFromTitlePrefix(record models.RawProduct) string {
	lower := strings.ToLower(record.Name)
	for _, known := range knownBrandsByLength {
		prefix := strings.ToLower(known)
		if lower == prefix || strings.HasPrefix(lower, prefix+" ") {
			return known
		}
	}
	return ""
}

func brandFromFirstWord(record models.RawProduct) string {
	fields := strings.Fields(record.Name)
	if len(fields) == 0 {
		return ""
	}
	for _, known := range knownBrands {
		if strings.EqualFold(known, fields[0]) {
			return known
		}
	}
	return ""
}
