package icecat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/speclens/backend/internal/domain"
)

// Package-level compiled patterns for heuristic spec extraction from a
// search-results page.
var (
	displayPattern   = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:inch|")\s*([^<,]*)`)
	storagePattern   = regexp.MustCompile(`(?i)(\d+(?:GB|TB))`)
	memoryPattern    = regexp.MustCompile(`(?i)(\d+(?:GB|MB))\s*(?:RAM|Memory)`)
	processorPattern = regexp.MustCompile(`(?i)(A\d+|Intel|AMD|Snapdragon)[^<,]*`)
	cameraPattern    = regexp.MustCompile(`(?i)(\d+MP)`)
)

// productNameBrands are the brand markers a scraped title must contain to
// count as a product heading rather than page chrome.
var productNameBrands = []string{"galaxy", "iphone", "dell", "sony", "macbook"}

// parseSearchPage extracts the first product from an icecat.biz search
// results page. The page layout is not stable, so extraction is heuristic:
// headings and link titles are tried first, then a last-resort check that
// the page mentions the query at all.
func parseSearchPage(html string, query string) (*domain.ProductSpec, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseFormat, err)
	}

	if name := findProductName(doc); name != "" {
		brand := domain.BrandUnknown
		for _, known := range knownBrands {
			if strings.Contains(strings.ToLower(name), strings.ToLower(known)) {
				brand = known
				break
			}
		}

		specs := extractSpecsFromHTML(html)
		specs["source_url"] = searchPageURL(query)

		return &domain.ProductSpec{
			Brand:          brand,
			Model:          name,
			Category:       guessCategory(name),
			Specifications: specs,
			PriceRange:     "Contact supplier",
			Availability:   "Available on Icecat",
			Sources:        []string{"icecat.biz"},
		}, nil
	}

	// The page mentions the query even though no product card parsed:
	// hand back a pointer record rather than nothing.
	pageLower := strings.ToLower(html)
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(pageLower, word) {
			return &domain.ProductSpec{
				Brand:    extractBrand(query),
				Model:    query,
				Category: guessCategory(query),
				Specifications: map[string]string{
					"search_results": "Product found in Icecat database",
					"note":           "Visit Icecat.biz for detailed specifications",
					"source_url":     searchPageURL(query),
				},
				PriceRange:   "Contact supplier",
				Availability: "Available in Icecat catalog",
				Sources:      []string{"icecat.biz"},
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: no products on search page", domain.ErrResponseFormat)
}

// findProductName returns the first heading or title attribute that looks
// like a product name.
func findProductName(doc *goquery.Document) string {
	var name string

	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if looksLikeProductName(text) {
			name = text
			return false
		}
		return true
	})
	if name != "" {
		return name
	}

	doc.Find("[title], img[alt]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"title", "alt"} {
			if value, ok := s.Attr(attr); ok && looksLikeProductName(value) {
				name = strings.TrimSpace(value)
				return false
			}
		}
		return true
	})

	return name
}

func looksLikeProductName(text string) bool {
	if text == "" {
		return false
	}
	textLower := strings.ToLower(text)
	for _, marker := range productNameBrands {
		if strings.Contains(textLower, marker) {
			return true
		}
	}
	return false
}

// extractSpecsFromHTML pulls common specification patterns out of raw page
// text.
func extractSpecsFromHTML(html string) map[string]string {
	specs := map[string]string{}

	if m := displayPattern.FindStringSubmatch(html); m != nil {
		specs["display"] = strings.TrimSpace(m[1] + " " + m[2])
	}
	if m := storagePattern.FindStringSubmatch(html); m != nil {
		specs["storage"] = m[1]
	}
	if m := memoryPattern.FindStringSubmatch(html); m != nil {
		specs["memory"] = m[1]
	}
	if m := processorPattern.FindStringSubmatch(html); m != nil {
		specs["processor"] = strings.TrimSpace(m[0])
	}
	if m := cameraPattern.FindStringSubmatch(html); m != nil {
		specs["camera"] = m[1]
	}

	specs["last_updated"] = "Real-time from Icecat"
	return specs
}
