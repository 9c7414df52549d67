package icecat

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/speclens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Icecat Live API endpoint.
const DefaultBaseURL = "https://live.icecat.biz/api"

// DefaultSearchBaseURL is the public search page used by the scrape path.
const DefaultSearchBaseURL = "https://icecat.biz/en/search/"

// Config holds explicit credentials for the Icecat client.
type Config struct {
	APIToken      string
	ContentToken  string
	BaseURL       string
	SearchBaseURL string
}

// Client searches the Icecat product catalog. Search never returns an
// error: every live failure degrades down a fixed chain (live API, search
// page scrape, offline dataset), and the offline dataset always synthesizes
// a record.
type Client struct {
	httpClient    *http.Client
	apiToken      string
	contentToken  string
	baseURL       string
	searchBaseURL string
	rateLimiter   *rate.Limiter
	debug         bool
}

// NewClient creates a new Icecat catalog client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	searchBaseURL := cfg.SearchBaseURL
	if searchBaseURL == "" {
		searchBaseURL = DefaultSearchBaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiToken:      cfg.APIToken,
		contentToken:  cfg.ContentToken,
		baseURL:       baseURL,
		searchBaseURL: searchBaseURL,
		rateLimiter:   rate.NewLimiter(rate.Limit(2), 5),
	}
}

// SetDebug enables verbose degradation-chain logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return domain.SourceIcecat
}

// Search looks up a product in the Icecat catalog. The returned error is
// always nil; the signature keeps the provider interface uniform.
func (c *Client) Search(ctx context.Context, query string) (*domain.ProductSpec, error) {
	if c.apiToken != "" {
		if spec, err := c.tryLiveAPI(ctx, query); err == nil {
			return spec, nil
		} else if c.debug {
			log.Printf("[ICECAT] Live API failed for %q: %v", query, err)
		}

		if spec, err := c.tryOpenCatalog(ctx, query); err == nil {
			return spec, nil
		} else if c.debug {
			log.Printf("[ICECAT] Search page scrape failed for %q: %v", query, err)
		}
	}

	return catalogSearch(query), nil
}

// tryLiveAPI queries the Icecat Live API and parses whichever body format
// comes back (JSON object or XML tree).
func (c *Client) tryLiveAPI(ctx context.Context, query string) (*domain.ProductSpec, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("shopname", "openicecat-live")
	params.Add("lang", "en")
	params.Add("content", "")
	params.Add("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Api-Token", c.apiToken)
	if c.contentToken != "" {
		req.Header.Set("Content-Token", c.contentToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrBackendRequest, resp.StatusCode)
	}

	return c.parseLiveBody(body, query)
}

// parseLiveBody dispatches on the body format. JSON and XML carry brand,
// model and category under different keys, so each branch has its own
// extraction mapping.
func (c *Client) parseLiveBody(body []byte, query string) (*domain.ProductSpec, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "<") {
		return parseXMLProduct(body, query)
	}
	return parseJSONProduct(body, query)
}

// liveProduct is the JSON shape of an Icecat Live API product.
type liveProduct struct {
	Data struct {
		GeneralInfo struct {
			Title string `json:"Title"`
			Brand string `json:"Brand"`
			Category struct {
				Name struct {
					Value string `json:"Value"`
				} `json:"Name"`
			} `json:"Category"`
			Description struct {
				ShortDesc string `json:"ShortDesc"`
			} `json:"Description"`
		} `json:"GeneralInfo"`
		FeaturesGroups []struct {
			Features []struct {
				Feature struct {
					Name struct {
						Value string `json:"Value"`
					} `json:"Name"`
				} `json:"Feature"`
				PresentationValue string `json:"PresentationValue"`
			} `json:"Features"`
		} `json:"FeaturesGroups"`
	} `json:"data"`
}

// parseJSONProduct extracts the common record shape from a Live API JSON
// body. Feature names become spec keys, lower-cased with underscores.
func parseJSONProduct(body []byte, query string) (*domain.ProductSpec, error) {
	var product liveProduct
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseFormat, err)
	}

	info := product.Data.GeneralInfo
	if info.Title == "" && info.Brand == "" {
		return nil, fmt.Errorf("%w: empty product payload", domain.ErrResponseFormat)
	}

	specs := map[string]string{}
	for _, group := range product.Data.FeaturesGroups {
		for _, feature := range group.Features {
			name := feature.Feature.Name.Value
			if name == "" || feature.PresentationValue == "" {
				continue
			}
			specs[specKey(name)] = feature.PresentationValue
		}
	}
	if info.Description.ShortDesc != "" {
		specs["description"] = info.Description.ShortDesc
	}

	brand := info.Brand
	if brand == "" {
		brand = domain.BrandUnknown
	}
	model := info.Title
	if model == "" {
		model = query
	}
	category := info.Category.Name.Value
	if category == "" {
		category = domain.BrandUnknown
	}

	return &domain.ProductSpec{
		Brand:          brand,
		Model:          model,
		Category:       category,
		Specifications: specs,
		PriceRange:     "Contact supplier",
		Availability:   "Check with retailer",
		Sources:        []string{"icecat.biz"},
	}, nil
}

// xmlProduct is the XML shape of an Icecat catalog product.
type xmlProduct struct {
	XMLName  xml.Name     `xml:"Product"`
	ID       string       `xml:"ID,attr"`
	Name     string       `xml:"Name,attr"`
	Supplier string       `xml:"Supplier,attr"`
	Category string       `xml:"CategoryName,attr"`
	HighPic  string       `xml:"HighPic,attr"`
	Features []xmlFeature `xml:"ProductFeature"`
}

type xmlFeature struct {
	Name  string `xml:"CategoryFeature_Name,attr"`
	Value string `xml:"Presentation_Value,attr"`
}

// parseXMLProduct extracts the common record shape from an Icecat XML body.
func parseXMLProduct(body []byte, query string) (*domain.ProductSpec, error) {
	var product xmlProduct
	if err := xml.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseFormat, err)
	}

	specs := map[string]string{}
	for _, feature := range product.Features {
		if feature.Name == "" || feature.Value == "" {
			continue
		}
		specs[specKey(feature.Name)] = feature.Value
	}
	specs["icecat_id"] = product.ID
	specs["product_url"] = product.HighPic

	brand := product.Supplier
	if brand == "" {
		brand = domain.BrandUnknown
	}
	model := product.Name
	if model == "" {
		model = query
	}
	category := product.Category
	if category == "" {
		category = domain.BrandUnknown
	}

	return &domain.ProductSpec{
		Brand:          brand,
		Model:          model,
		Category:       category,
		Specifications: specs,
		PriceRange:     "Contact supplier",
		Availability:   "Check with retailer",
		Sources:        []string{"icecat.biz"},
	}, nil
}

// specKey normalizes a feature name into a specification key.
func specKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// tryOpenCatalog fetches the public search-results page and scrapes the
// first product out of it.
func (c *Client) tryOpenCatalog(ctx context.Context, query string) (*domain.ProductSpec, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchBaseURL+"?keyword="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search page status %d", domain.ErrBackendRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	return parseSearchPage(string(body), query)
}
