package gs1

import (
	"context"
	"testing"

	"github.com/speclens/backend/internal/domain"
)

func TestSearch_KnownGTIN(t *testing.T) {
	client := NewClient(Config{})

	spec, err := client.Search(context.Background(), "012345678905")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Brand != "Sample Brand" {
		t.Errorf("brand = %q, want Sample Brand", spec.Brand)
	}
	if spec.Specifications["gs1_verified"] != "Yes" {
		t.Errorf("gs1_verified = %q, want Yes", spec.Specifications["gs1_verified"])
	}
	if spec.Specifications["gtin"] != "012345678905" {
		t.Errorf("gtin = %q", spec.Specifications["gtin"])
	}
}

func TestSearch_KnownGTIN13(t *testing.T) {
	client := NewClient(Config{})

	spec, _ := client.Search(context.Background(), "1234567890123")

	if spec.Brand != "Tech Corp" {
		t.Errorf("brand = %q, want Tech Corp", spec.Brand)
	}
	if spec.Model != "Electronic Device" {
		t.Errorf("model = %q, want Electronic Device", spec.Model)
	}
}

func TestSearch_NormalizesSeparators(t *testing.T) {
	client := NewClient(Config{})

	// Hyphens and spaces are stripped before the format gate
	spec, _ := client.Search(context.Background(), "0123-4567 8905")

	if spec.Specifications["gs1_verified"] != "Yes" {
		t.Errorf("separator-formatted GTIN should resolve, got brand %q", spec.Brand)
	}
}

func TestSearch_ValidFormatUnknownGTIN(t *testing.T) {
	client := NewClient(Config{})

	spec, _ := client.Search(context.Background(), "99999999")

	if spec.Brand != domain.BrandUnknown {
		t.Errorf("brand = %q, want Unknown", spec.Brand)
	}
	if spec.Model != "GTIN: 99999999" {
		t.Errorf("model = %q", spec.Model)
	}
	if spec.Specifications["status"] == "" {
		t.Error("status must explain the valid-but-unmatched format")
	}
}

func TestSearch_InvalidFormat(t *testing.T) {
	client := NewClient(Config{})

	tests := []string{"abc123", "12345", "123456789", "not a barcode", ""}
	for _, query := range tests {
		spec, err := client.Search(context.Background(), query)
		if err != nil {
			t.Fatalf("Search(%q) must not fail: %v", query, err)
		}
		if spec.Brand != domain.BrandGS1Search {
			t.Errorf("Search(%q) brand = %q, want GS1 Search", query, spec.Brand)
		}
		if spec.Specifications["gtin_format"] == "" {
			t.Errorf("Search(%q) must carry format guidance", query)
		}
	}
}

func TestName(t *testing.T) {
	if got := NewClient(Config{}).Name(); got != domain.SourceGS1 {
		t.Errorf("Name() = %q, want %q", got, domain.SourceGS1)
	}
}
