package gemini

import (
	"strings"

	"github.com/speclens/backend/internal/domain"
)

// demoEntry couples a lookup key with its canned record. A slice (not a
// map) keeps dataset iteration order fixed: first match wins.
type demoEntry struct {
	key  string
	spec domain.ProductSpec
}

// demoProducts is the offline dataset used when no API key is configured.
var demoProducts = []demoEntry{
	{
		key: "iphone 15 pro",
		spec: domain.ProductSpec{
			Brand:    "Apple",
			Model:    "iPhone 15 Pro",
			Category: "Smartphone",
			Specifications: map[string]string{
				"display":          "6.1-inch Super Retina XDR OLED, 2556x1179 resolution",
				"processor":        "A17 Pro chip with 6-core CPU",
				"storage":          "128GB, 256GB, 512GB, 1TB options",
				"camera":           "48MP Main, 12MP Ultra Wide, 12MP Telephoto (3x zoom)",
				"battery":          "Up to 23 hours video playback",
				"os":               "iOS 17",
				"connectivity":     "5G, Wi-Fi 6E, Bluetooth 5.3",
				"materials":        "Titanium design with Ceramic Shield front",
				"water_resistance": "IP68 (up to 6 meters for 30 minutes)",
			},
			PriceRange:   "$999 - $1,499",
			Availability: "Available",
			Sources:      []string{"apple.com", "gsmarena.com", "techradar.com", "theverge.com"},
		},
	},
	{
		key: "sony wh-1000xm5",
		spec: domain.ProductSpec{
			Brand:    "Sony",
			Model:    "WH-1000XM5",
			Category: "Wireless Noise-Canceling Headphones",
			Specifications: map[string]string{
				"driver":             "30mm dynamic drivers",
				"frequency_response": "4Hz - 40kHz",
				"battery_life":       "30 hours with ANC, 40 hours without ANC",
				"charging":           "USB-C, Quick charge: 3 min = 3 hours playback",
				"weight":             "250g",
				"connectivity":       "Bluetooth 5.2, NFC, 3.5mm jack",
				"noise_canceling":    "Industry-leading ANC with V1 processor",
				"microphones":        "8 microphones for call clarity",
				"codec_support":      "LDAC, SBC, AAC",
			},
			PriceRange:   "$399 - $429",
			Availability: "Available",
			Sources:      []string{"sony.com", "rtings.com", "whatifi.com", "headphonesty.com"},
		},
	},
	{
		key: "macbook pro m3",
		spec: domain.ProductSpec{
			Brand:    "Apple",
			Model:    "MacBook Pro M3",
			Category: "Laptop",
			Specifications: map[string]string{
				"processor": "Apple M3 chip with 8-core CPU and 10-core GPU",
				"memory":    "8GB, 16GB, or 24GB unified memory",
				"storage":   "512GB, 1TB, 2TB SSD options",
				"display":   "14-inch or 16-inch Liquid Retina XDR display",
				"battery":   "Up to 22 hours video playback",
				"ports":     "3x Thunderbolt 4, HDMI, SDXC, MagSafe 3",
				"os":        "macOS Sonoma",
				"weight":    "3.4 lbs (14-inch), 4.7 lbs (16-inch)",
			},
			PriceRange:   "$1,599 - $2,499",
			Availability: "Available",
			Sources:      []string{"apple.com", "macrumors.com", "9to5mac.com"},
		},
	},
	{
		key: "dell p2422h",
		spec: domain.ProductSpec{
			Brand:    "Dell",
			Model:    "P2422H",
			Category: "Professional Monitor",
			Specifications: map[string]string{
				"screen_size":       "24-inch (23.8-inch viewable)",
				"resolution":        "1920 x 1080 Full HD",
				"panel_type":        "IPS technology",
				"refresh_rate":      "60Hz",
				"response_time":     "8ms (normal); 5ms (fast)",
				"brightness":        "250 cd/m2 (typical)",
				"contrast_ratio":    "1000:1 (typical)",
				"color_gamut":       "99% sRGB",
				"connectivity":      "HDMI 1.4, DisplayPort 1.2, VGA, USB 3.2 hub",
				"adjustability":     "Height, tilt, swivel, pivot",
				"vesa_mount":        "100mm x 100mm",
				"power_consumption": "18W (typical)",
			},
			PriceRange:   "$200 - $280",
			Availability: "Available",
			Sources:      []string{"dell.com", "displayspecifications.com", "rtings.com"},
		},
	},
	{
		key: "samsung galaxy s24",
		spec: domain.ProductSpec{
			Brand:    "Samsung",
			Model:    "Galaxy S24",
			Category: "Smartphone",
			Specifications: map[string]string{
				"display":          "6.2-inch Dynamic AMOLED 2X, 2340x1080",
				"processor":        "Snapdragon 8 Gen 3 / Exynos 2400",
				"storage":          "128GB, 256GB, 512GB",
				"camera":           "50MP main, 12MP ultrawide, 10MP telephoto",
				"battery":          "4000mAh with 25W fast charging",
				"os":               "Android 14 with One UI 6.1",
				"connectivity":     "5G, Wi-Fi 6E, Bluetooth 5.3",
				"materials":        "Aluminum frame with Gorilla Glass Victus 2",
				"water_resistance": "IP68",
			},
			PriceRange:   "$799 - $999",
			Availability: "Available",
			Sources:      []string{"samsung.com", "gsmarena.com", "androidcentral.com"},
		},
	},
	{
		key: "tesla model 3",
		spec: domain.ProductSpec{
			Brand:    "Tesla",
			Model:    "Model 3",
			Category: "Electric Vehicle",
			Specifications: map[string]string{
				"drivetrain":   "Rear-wheel drive / All-wheel drive",
				"range":        "272-358 miles EPA estimated",
				"acceleration": "0-60 mph in 4.2-5.8 seconds",
				"top_speed":    "125-162 mph",
				"charging":     "Supercharger V3 compatible, up to 250kW",
				"interior":     "15-inch touchscreen, premium audio",
				"autopilot":    "Standard Autopilot included",
				"seating":      "5 adults",
				"cargo":        "15 cu ft rear, 2.8 cu ft front trunk",
			},
			PriceRange:   "$38,990 - $54,990",
			Availability: "Available",
			Sources:      []string{"tesla.com", "edmunds.com", "motortrend.com"},
		},
	},
	{
		key: "airpods pro",
		spec: domain.ProductSpec{
			Brand:    "Apple",
			Model:    "AirPods Pro (2nd generation)",
			Category: "Wireless Earbuds",
			Specifications: map[string]string{
				"chip":               "Apple H2 chip",
				"noise_cancellation": "Active Noise Cancellation",
				"battery_life":       "6 hours listening, 30 hours with case",
				"charging":           "MagSafe, Lightning, Qi wireless",
				"audio":              "Adaptive Audio, Personalized Spatial Audio",
				"controls":           "Touch control, Siri voice control",
				"water_resistance":   "IPX4 (earbuds and case)",
				"case":               "MagSafe Charging Case included",
			},
			PriceRange:   "$249 - $279",
			Availability: "Available",
			Sources:      []string{"apple.com", "soundguys.com", "whatifi.com"},
		},
	},
}

// specialCase maps a keyword group to a dataset key. Groups are checked in
// order after the generic passes and short-circuit on the first match.
type specialCase struct {
	terms []string
	key   string
}

var specialCases = []specialCase{
	{terms: []string{"dell", "p2422", "2422"}, key: "dell p2422h"},
	{terms: []string{"galaxy", "s24", "samsung"}, key: "samsung galaxy s24"},
	{terms: []string{"tesla", "model 3", "model3"}, key: "tesla model 3"},
	{terms: []string{"airpods", "pro", "earbuds"}, key: "airpods pro"},
}

// demoSearch resolves a query against the offline dataset.
//
// Matching runs in fixed passes: exact/substring key match, brand/model
// substring match, token overlap on the cleaned query, special-case keyword
// groups, then an enumerating "not found" record.
func demoSearch(query string) *domain.ProductSpec {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	// Common words like "monitor"/"laptop"/"phone" only add noise when
	// matching tokens. Plain substring removal, matching is tolerant of
	// the leftovers.
	cleaned := queryLower
	for _, noise := range []string{"monitor", "laptop", "phone"} {
		cleaned = strings.ReplaceAll(cleaned, noise, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	// Pass 1: exact key or key-in-query substring.
	for _, entry := range demoProducts {
		if entry.key == queryLower || strings.Contains(queryLower, entry.key) {
			return entry.spec.Clone()
		}
	}

	// Pass 2: query mentions the entry's brand or model.
	for _, entry := range demoProducts {
		brand := strings.ToLower(entry.spec.Brand)
		model := strings.ToLower(entry.spec.Model)
		if brand != "" && strings.Contains(queryLower, brand) {
			return entry.spec.Clone()
		}
		if model != "" && strings.Contains(queryLower, model) {
			return entry.spec.Clone()
		}
	}

	// Pass 3: token overlap between the cleaned query and the dataset key.
	queryWords := strings.Fields(cleaned)
	for _, entry := range demoProducts {
		keyWords := strings.Fields(entry.key)
		for _, qw := range queryWords {
			if len(qw) <= 2 {
				continue
			}
			for _, kw := range keyWords {
				if strings.Contains(kw, qw) || strings.Contains(qw, kw) {
					return entry.spec.Clone()
				}
			}
		}
	}

	// Pass 4: fixed keyword groups for common searches.
	for _, sc := range specialCases {
		for _, term := range sc.terms {
			if strings.Contains(queryLower, term) {
				if spec := demoLookup(sc.key); spec != nil {
					return spec
				}
				break
			}
		}
	}

	return demoNotFound(query)
}

// demoLookup fetches a dataset entry by exact key.
func demoLookup(key string) *domain.ProductSpec {
	for _, entry := range demoProducts {
		if entry.key == key {
			return entry.spec.Clone()
		}
	}
	return nil
}

// demoNotFound builds the record returned when nothing in the dataset
// matched, enumerating the available keys as a suggestion.
func demoNotFound(query string) *domain.ProductSpec {
	keys := make([]string, 0, len(demoProducts))
	for _, entry := range demoProducts {
		keys = append(keys, entry.key)
	}

	return &domain.ProductSpec{
		Brand:    domain.BrandUnknown,
		Model:    query,
		Category: "Product",
		Specifications: map[string]string{
			"status":     "Product not found in demo database",
			"suggestion": "Try one of these available products: " + strings.Join(keys, ", "),
			"search_tip": "Demo mode supports: iPhone 15 Pro, Sony WH-1000XM5, MacBook Pro M3, Dell P2422H, Samsung Galaxy S24, Tesla Model 3, AirPods Pro",
			"note":       "This is demo mode. Connect your Gemini API key for real searches.",
		},
		PriceRange:   "N/A",
		Availability: "Unknown",
		Sources:      []string{"demo-mode"},
	}
}
