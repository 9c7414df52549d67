package usecase

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/speclens/backend/internal/domain"
)

// providerLabels are the human-readable names used in error messages.
var providerLabels = map[string]string{
	domain.SourceGoogle: "Google",
	domain.SourceIcecat: "Icecat",
	domain.SourceGS1:    "GS1",
}

// invocationOrder fixes the order providers are queried in. It does not
// imply priority; fusion priority is fixed separately in fuse.
var invocationOrder = []string{domain.SourceGoogle, domain.SourceIcecat, domain.SourceGS1}

// Resolver fans a query out to the enabled providers and fuses their
// answers into one record. It is state-free per call: same query, same
// enabled set and same provider configuration give the same fused result.
type Resolver struct {
	providers map[string]domain.SpecProvider
	debug     bool
}

// NewResolver creates a resolver over the given providers. A nil provider
// slot simply means that source cannot be searched.
func NewResolver(providers map[string]domain.SpecProvider) *Resolver {
	if providers == nil {
		providers = map[string]domain.SpecProvider{}
	}
	return &Resolver{providers: providers}
}

// SetDebug enables per-provider resolution logging.
func (r *Resolver) SetDebug(debug bool) {
	r.debug = debug
}

// Resolve queries every enabled provider and returns one fused record. It
// never fails: provider errors are collected, and when nothing answers the
// returned record is a "No Results" record describing why.
func (r *Resolver) Resolve(ctx context.Context, query string, enabled []string) *domain.ProductSpec {
	results := map[string]*domain.ProductSpec{}
	var responded []string
	var errs []string

	for _, name := range invocationOrder {
		if !contains(enabled, name) {
			continue
		}
		provider, ok := r.providers[name]
		if !ok || provider == nil {
			continue
		}

		spec, err := provider.Search(ctx, query)
		if err != nil || spec == nil {
			if err == nil {
				err = fmt.Errorf("provider returned no record")
			}
			if r.debug {
				log.Printf("[RESOLVE] %s failed for %q: %v", name, query, err)
			}
			errs = append(errs, fmt.Sprintf("%s search error: %v", providerLabels[name], err))
			continue
		}

		results[name] = spec
		responded = append(responded, name)
	}

	if len(results) == 0 {
		if len(errs) == 0 {
			errs = []string{"No sources enabled"}
		}
		return &domain.ProductSpec{
			Brand:    domain.BrandNoResults,
			Model:    query,
			Category: domain.BrandUnknown,
			Specifications: map[string]string{
				"status":          "No results from any enabled source",
				"errors":          strings.Join(errs, "; "),
				"enabled_sources": strings.Join(enabled, ", "),
			},
			PriceRange:   "N/A",
			Availability: "Unknown",
			Sources:      append([]string(nil), enabled...),
		}
	}

	return fuse(results, responded)
}

// fuse merges provider results into one record.
//
// Base selection priority is fixed: the catalog result wins unless it is a
// "Not Found" record, then the web-search result unless unresolved, then
// the registry result, then whatever single result is left. Sources are
// unioned and the base record's specifications gain two synthetic entries
// describing the fan-out.
func fuse(results map[string]*domain.ProductSpec, responded []string) *domain.ProductSpec {
	var base *domain.ProductSpec
	switch {
	case results[domain.SourceIcecat] != nil && results[domain.SourceIcecat].Brand != domain.BrandNotFound:
		base = results[domain.SourceIcecat].Clone()
	case results[domain.SourceGoogle] != nil && results[domain.SourceGoogle].Brand != domain.BrandUnknown:
		base = results[domain.SourceGoogle].Clone()
	case results[domain.SourceGS1] != nil:
		base = results[domain.SourceGS1].Clone()
	default:
		base = results[responded[0]].Clone()
	}
	base.MultiSource = true

	// Union of every responder's sources, first-seen order, no duplicates.
	seen := map[string]bool{}
	var sources []string
	for _, name := range responded {
		for _, src := range results[name].Sources {
			if !seen[src] {
				seen[src] = true
				sources = append(sources, src)
			}
		}
	}
	base.Sources = sources
	base.SearchedSources = append([]string(nil), responded...)

	if base.Specifications == nil {
		base.Specifications = map[string]string{}
	}
	base.Specifications["search_results_count"] = strconv.Itoa(len(results))
	base.Specifications["sources_searched"] = strings.Join(responded, ", ")

	return base
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
