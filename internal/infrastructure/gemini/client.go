package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/speclens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the generateContent endpoint for the Gemini model used
// for product searches.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// searchPrompt is the structured-output template sent to the model. The
// model is asked to answer with a bare JSON object in the ProductSpec shape.
const searchPrompt = `
You are an AI assistant that helps find detailed product specifications by searching the web.

Search for the following product: %q

Please provide a structured JSON response with the following format:
{
    "brand": "Brand name",
    "model": "Model name/number",
    "category": "Product category",
    "specifications": {
        "spec1": "value1",
        "spec2": "value2"
    },
    "price_range": "Price range if available",
    "availability": "Availability status",
    "sources": ["source1.com", "source2.com"]
}

Use your web search capabilities to find accurate, up-to-date information from official websites, retailers, and trusted tech review sites.
Focus on technical specifications, features, and key product details.
`

// Config holds explicit credentials and knobs for the Gemini client.
// Credentials are injected here rather than read from the environment.
type Config struct {
	APIKey    string
	BaseURL   string
	ForceDemo bool
}

// Client searches for product specifications via Gemini with Google Search
// grounding, falling back to the offline demo dataset when no key is
// configured.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	forceDemo   bool
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Gemini search client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// Free-tier Gemini allows 15 requests per minute; burst of 5 keeps
	// short bulk runs snappy without tripping the quota.
	limiter := rate.NewLimiter(rate.Limit(0.25), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		forceDemo:   cfg.ForceDemo,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return domain.SourceGoogle
}

// DemoMode reports whether searches resolve against the offline dataset.
func (c *Client) DemoMode() bool {
	return c.forceDemo || c.apiKey == ""
}

// Search looks up product specifications for a query. Without a configured
// API key (or with demo mode forced) it resolves against the offline
// dataset and never fails; with a key it issues a single grounded
// generateContent call.
func (c *Client) Search(ctx context.Context, query string) (*domain.ProductSpec, error) {
	if c.DemoMode() {
		if c.debug {
			log.Printf("[GEMINI] Demo search for %q", query)
		}
		return demoSearch(query), nil
	}
	return c.liveSearch(ctx, query)
}

// generateRequest is the generateContent payload: the templated prompt plus
// generation config and the Google Search retrieval tool.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	Tools            []tool           `json:"tools"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type tool struct {
	GoogleSearchRetrieval googleSearchRetrieval `json:"googleSearchRetrieval"`
}

type googleSearchRetrieval struct {
	DynamicRetrievalConfig dynamicRetrievalConfig `json:"dynamicRetrievalConfig"`
}

type dynamicRetrievalConfig struct {
	Mode             string  `json:"mode"`
	DynamicThreshold float64 `json:"dynamicThreshold"`
}

// generateResponse covers the slice of the generateContent response the
// client consumes: generated text plus grounding metadata.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content           content            `json:"content"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
}

type groundingMetadata struct {
	SearchEntryPoints []searchEntryPoint `json:"searchEntryPoints"`
}

type searchEntryPoint struct {
	RenderedContent string `json:"renderedContent"`
}

// liveSearch issues the grounded generateContent call and normalizes the
// generated text into a ProductSpec.
func (c *Client) liveSearch(ctx context.Context, query string) (*domain.ProductSpec, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(searchPrompt, query)}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.1,
			MaxOutputTokens: 2048,
		},
		Tools: []tool{{
			GoogleSearchRetrieval: googleSearchRetrieval{
				DynamicRetrievalConfig: dynamicRetrievalConfig{
					Mode:             "MODE_DYNAMIC",
					DynamicThreshold: 0.7,
				},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.debug {
		log.Printf("[GEMINI] POST %s for query %q", c.baseURL, query)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[GEMINI] API error - Status: %d, Body: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrBackendRequest, resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseFormat, err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no candidates in response", domain.ErrResponseFormat)
	}

	return c.parseGenerated(genResp.Candidates[0], query), nil
}

// parseGenerated turns the model output into a ProductSpec. Non-JSON text
// degrades to a raw_response record rather than an error.
func (c *Client) parseGenerated(cand candidate, query string) *domain.ProductSpec {
	text := cand.Content.Parts[0].Text

	var spec domain.ProductSpec
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &spec); err != nil {
		log.Printf("[GEMINI] Generated text is not valid JSON: %v", err)
		return &domain.ProductSpec{
			Brand:          domain.BrandUnknown,
			Model:          query,
			Category:       "Product",
			Specifications: map[string]string{"raw_response": text},
			PriceRange:     "N/A",
			Availability:   "Unknown",
			Sources:        []string{"gemini-api"},
		}
	}
	if spec.Specifications == nil {
		spec.Specifications = map[string]string{}
	}

	// Grounding citations name the sites the answer actually came from;
	// they replace whatever sources the model put in the JSON.
	if cand.GroundingMetadata != nil && len(cand.GroundingMetadata.SearchEntryPoints) > 0 {
		sources := make([]string, 0, len(cand.GroundingMetadata.SearchEntryPoints))
		for _, entry := range cand.GroundingMetadata.SearchEntryPoints {
			if entry.RenderedContent != "" {
				sources = append(sources, entry.RenderedContent)
			}
		}
		spec.Sources = sources
	}

	return &spec
}

// stripCodeFence removes a surrounding markdown code fence, which the model
// frequently wraps JSON output in despite the prompt.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		if idx := strings.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// BulkResult is one entry of a bulk search, tagged with whether the lookup
// succeeded. Failed entries carry an all-"Error" record so callers can
// still render a row.
type BulkResult struct {
	Query   string              `json:"query"`
	Success bool                `json:"success"`
	Error   string              `json:"error,omitempty"`
	Data    *domain.ProductSpec `json:"data"`
}

// BulkSearch runs Search for each query in order, isolating failures per
// entry.
func (c *Client) BulkSearch(ctx context.Context, queries []string) []BulkResult {
	results := make([]BulkResult, 0, len(queries))

	for _, query := range queries {
		spec, err := c.Search(ctx, query)
		if err != nil {
			results = append(results, BulkResult{
				Query: query,
				Error: err.Error(),
				Data: &domain.ProductSpec{
					Brand:          domain.BrandError,
					Model:          query,
					Category:       domain.BrandError,
					Specifications: map[string]string{"error": err.Error()},
					PriceRange:     "N/A",
					Availability:   domain.BrandError,
					Sources:        []string{"error"},
				},
			})
			continue
		}
		results = append(results, BulkResult{Query: query, Success: true, Data: spec})
	}

	return results
}

// ValidateAPIKey reports whether a Gemini API key is plausibly well formed.
// This is a format check only, not an authentication check.
func ValidateAPIKey(apiKey string) bool {
	return len(apiKey) >= 20
}
