package usecase

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/speclens/backend/internal/domain"
)

// DefaultMaxBulkQueries caps a batch when the caller supplies no bound.
const DefaultMaxBulkQueries = 50

// BulkRow is one flattened lookup result, shaped for tabular export:
// specifications collapse into a JSON string and sources into a
// comma-joined string.
type BulkRow struct {
	Query          string `json:"query"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Category       string `json:"category"`
	PriceRange     string `json:"price_range"`
	Availability   string `json:"availability"`
	Specifications string `json:"specifications"`
	Sources        string `json:"sources"`
}

// BulkService resolves ordered batches of queries, isolating failures per
// item.
type BulkService struct {
	resolver *Resolver
}

// NewBulkService creates a bulk driver over the given resolver.
func NewBulkService(resolver *Resolver) *BulkService {
	return &BulkService{resolver: resolver}
}

// ResolveMany resolves up to maxCount queries in order, one row per query.
// A failing item becomes an all-"Error" placeholder row; the batch always
// runs to completion.
func (s *BulkService) ResolveMany(ctx context.Context, queries []string, enabled []string, maxCount int) []BulkRow {
	if maxCount <= 0 || maxCount > DefaultMaxBulkQueries {
		maxCount = DefaultMaxBulkQueries
	}
	if len(queries) > maxCount {
		queries = queries[:maxCount]
	}

	rows := make([]BulkRow, 0, len(queries))
	for _, query := range queries {
		rows = append(rows, s.resolveRow(ctx, query, enabled))
	}
	return rows
}

// resolveRow resolves one batch item. Resolve does not fail by contract,
// but a panic inside a provider must not take the batch down with it.
func (s *BulkService) resolveRow(ctx context.Context, query string, enabled []string) (row BulkRow) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[BULK] Recovered resolving %q: %v", query, rec)
			row = errorRow(query)
		}
	}()

	spec := s.resolver.Resolve(ctx, query, enabled)
	if spec == nil {
		return errorRow(query)
	}
	return FlattenSpec(query, spec)
}

// FlattenSpec converts a fused record into an export row. encoding/json
// writes map keys sorted, so the specifications column is deterministic.
func FlattenSpec(query string, spec *domain.ProductSpec) BulkRow {
	specsJSON, err := json.Marshal(spec.Specifications)
	if err != nil {
		specsJSON = []byte("{}")
	}

	return BulkRow{
		Query:          query,
		Brand:          spec.Brand,
		Model:          spec.Model,
		Category:       spec.Category,
		PriceRange:     spec.PriceRange,
		Availability:   spec.Availability,
		Specifications: string(specsJSON),
		Sources:        strings.Join(spec.Sources, ", "),
	}
}

func errorRow(query string) BulkRow {
	return BulkRow{
		Query:          query,
		Brand:          domain.BrandError,
		Model:          domain.BrandError,
		Category:       domain.BrandError,
		PriceRange:     domain.BrandError,
		Availability:   domain.BrandError,
		Specifications: domain.BrandError,
		Sources:        domain.BrandError,
	}
}

// ParseBulkInput extracts queries from free-form bulk text: a JSON string
// array first, otherwise one query per non-empty line.
func ParseBulkInput(text string) []string {
	var queries []string
	if err := json.Unmarshal([]byte(text), &queries); err == nil {
		return queries
	}

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
