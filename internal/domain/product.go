package domain

// Reserved brand values. Providers and the resolver use these as signals;
// they are never assigned to a genuinely resolved product.
const (
	BrandUnknown   = "Unknown"
	BrandNotFound  = "Not Found"
	BrandError     = "Error"
	BrandNoResults = "No Results"
	BrandGS1Search = "GS1 Search"
)

// Provider identifiers accepted in an enabled-source set.
const (
	SourceGoogle = "google"
	SourceIcecat = "icecat"
	SourceGS1    = "gs1"
)

// ProductSpec is the normalized record every provider produces.
// Specifications keys are provider-defined free text: alongside genuine
// product attributes they may carry diagnostic entries ("status", "error",
// "note") that consumers must tolerate.
type ProductSpec struct {
	Brand          string            `json:"brand"`
	Model          string            `json:"model"`
	Category       string            `json:"category"`
	Specifications map[string]string `json:"specifications"`
	PriceRange     string            `json:"price_range"`
	Availability   string            `json:"availability"`
	Sources        []string          `json:"sources"`

	// Set by the resolver when results from multiple providers were fused.
	MultiSource     bool     `json:"multi_source,omitempty"`
	SearchedSources []string `json:"searched_sources,omitempty"`
}

// Clone returns a deep copy so fusion can augment a base result without
// mutating the provider's original record.
func (p *ProductSpec) Clone() *ProductSpec {
	if p == nil {
		return nil
	}
	out := *p
	out.Specifications = make(map[string]string, len(p.Specifications))
	for k, v := range p.Specifications {
		out.Specifications[k] = v
	}
	out.Sources = append([]string(nil), p.Sources...)
	out.SearchedSources = append([]string(nil), p.SearchedSources...)
	return &out
}

// SourceInfo describes one data source for the /sources endpoint and CLI help.
type SourceInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	RequiresAPIKey bool   `json:"requiresApiKey"`
}

// KnownSources lists the fixed provider enumeration in invocation order.
var KnownSources = []SourceInfo{
	{
		ID:             SourceGoogle,
		Name:           "Google Search (via Gemini)",
		Description:    "Real-time web search using Gemini AI",
		RequiresAPIKey: true,
	},
	{
		ID:             SourceIcecat,
		Name:           "Icecat Product Database",
		Description:    "Global product catalog with detailed specifications",
		RequiresAPIKey: true,
	},
	{
		ID:             SourceGS1,
		Name:           "GS1 Global Registry",
		Description:    "Global standards for product identification",
		RequiresAPIKey: false,
	},
}
