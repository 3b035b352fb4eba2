// Package handle produces URL-safe, globally unique slugs for products and
// collections. A Registry holds every slug already claimed (hydrated from the
// store before a run) and hands out new ones with deterministic collision
// resolution.
package handle

import (
	"fmt"
	"strings"
	"sync"
)

const (
	// MaxLength bounds slugs before any collision suffix is appended.
	MaxLength = 60

	// placeholder used when a name slugifies to nothing
	placeholderSlug = "product"
)

// Slugify lowercases the name, collapses every run of non-alphanumeric
// characters to a single hyphen, strips leading/trailing hyphens and
// truncates to MaxLength.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > MaxLength {
		slug = strings.TrimRight(slug[:MaxLength], "-")
	}
	if slug == "" {
		return placeholderSlug
	}
	return slug
}

// Registry tracks handle ownership across and within runs. Handles hydrated
// from the store may be claimed once per run (the product upsert then updates
// that row in place, which keeps re-runs idempotent); handles claimed during
// the run are exclusive. Check-and-claim is atomic per Allocate call, so
// concurrent pipeline workers can never be handed the same handle.
type Registry struct {
	mu        sync.Mutex
	persisted map[string]struct{}
	claimed   map[string]struct{}
}

func NewRegistry(existing ...string) *Registry {
	r := &Registry{
		persisted: make(map[string]struct{}, len(existing)),
		claimed:   make(map[string]struct{}),
	}
	for _, h := range existing {
		r.persisted[h] = struct{}{}
	}
	return r
}

// Has reports whether a handle is known to the registry, either persisted or
// claimed during this run.
func (r *Registry) Has(handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.claimed[handle]; ok {
		return true
	}
	_, ok := r.persisted[handle]
	return ok
}

// Allocate claims a unique handle for name. On an in-run collision it first
// tries the name composed with the disambiguator (a SKU, when longer than 2
// chars) and then numeric suffixes starting at 2.
func (r *Registry) Allocate(name, disambiguator string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	slug := Slugify(name)
	if r.claim(slug) {
		return slug
	}

	if len(strings.TrimSpace(disambiguator)) > 2 {
		composed := Slugify(name + " " + disambiguator)
		if r.claim(composed) {
			return composed
		}
	}

	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", slug, n)
		if r.claim(candidate) {
			return candidate
		}
	}
}

// claim records the handle if no record of this run holds it yet; callers
// must hold r.mu.
func (r *Registry) claim(handle string) bool {
	if _, taken := r.claimed[handle]; taken {
		return false
	}
	r.claimed[handle] = struct{}{}
	return true
}
