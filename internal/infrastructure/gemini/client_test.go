package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/speclens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient(Config{APIKey: "test-api-key", BaseURL: "https://api.example.com"})

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient(Config{})
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestDemoMode(t *testing.T) {
	assert.True(t, NewClient(Config{}).DemoMode())
	assert.True(t, NewClient(Config{APIKey: "key", ForceDemo: true}).DemoMode())
	assert.False(t, NewClient(Config{APIKey: "key"}).DemoMode())
}

func TestSearch_DemoWithoutKey(t *testing.T) {
	client := NewClient(Config{})

	spec, err := client.Search(context.Background(), "Dell P2422H")

	require.NoError(t, err)
	assert.Equal(t, "Dell", spec.Brand)
	assert.Equal(t, "P2422H", spec.Model)
}

func newGenerateBody(t *testing.T, text string, grounding *groundingMetadata) []byte {
	t.Helper()
	body, err := json.Marshal(generateResponse{
		Candidates: []candidate{{
			Content:           content{Parts: []part{{Text: text}}},
			GroundingMetadata: grounding,
		}},
	})
	require.NoError(t, err)
	return body
}

func TestSearch_LiveSuccess(t *testing.T) {
	generated := `{
		"brand": "Sony",
		"model": "WH-1000XM5",
		"category": "Headphones",
		"specifications": {"battery_life": "30 hours"},
		"price_range": "$399",
		"availability": "Available",
		"sources": ["model-invented.com"]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "live-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Sony WH-1000XM5")
		assert.Equal(t, "MODE_DYNAMIC", req.Tools[0].GoogleSearchRetrieval.DynamicRetrievalConfig.Mode)

		w.Write(newGenerateBody(t, generated, &groundingMetadata{
			SearchEntryPoints: []searchEntryPoint{
				{RenderedContent: "sony.com"},
				{RenderedContent: "rtings.com"},
			},
		}))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "live-key", BaseURL: server.URL})

	spec, err := client.Search(context.Background(), "Sony WH-1000XM5")

	require.NoError(t, err)
	assert.Equal(t, "Sony", spec.Brand)
	assert.Equal(t, "WH-1000XM5", spec.Model)
	assert.Equal(t, "30 hours", spec.Specifications["battery_life"])
	// Grounding citations replace the model's own source list
	assert.Equal(t, []string{"sony.com", "rtings.com"}, spec.Sources)
}

func TestSearch_LiveCodeFencedJSON(t *testing.T) {
	generated := "```json\n{\"brand\": \"Apple\", \"model\": \"AirPods Pro\", \"category\": \"Earbuds\", \"specifications\": {}, \"price_range\": \"$249\", \"availability\": \"Available\", \"sources\": [\"apple.com\"]}\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(newGenerateBody(t, generated, nil))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "live-key", BaseURL: server.URL})

	spec, err := client.Search(context.Background(), "airpods")

	require.NoError(t, err)
	assert.Equal(t, "Apple", spec.Brand)
	assert.Equal(t, []string{"apple.com"}, spec.Sources)
}

func TestSearch_LiveNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(newGenerateBody(t, "The Sony WH-1000XM5 is a great headphone.", nil))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "live-key", BaseURL: server.URL})

	spec, err := client.Search(context.Background(), "sony headphones")

	require.NoError(t, err)
	assert.Equal(t, domain.BrandUnknown, spec.Brand)
	assert.Equal(t, "sony headphones", spec.Model)
	assert.Contains(t, spec.Specifications["raw_response"], "WH-1000XM5")
	assert.Equal(t, []string{"gemini-api"}, spec.Sources)
}

func TestSearch_LiveBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "API key not valid"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "live-key", BaseURL: server.URL})

	_, err := client.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBackendRequest))
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestSearch_LiveNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := NewClient(Config{APIKey: "live-key", BaseURL: server.URL})

	_, err := client.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestSearch_LiveEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "live-key", BaseURL: server.URL})

	_, err := client.Search(context.Background(), "anything")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrResponseFormat))
}

func TestBulkSearch(t *testing.T) {
	client := NewClient(Config{}) // demo mode

	results := client.BulkSearch(context.Background(), []string{"iphone 15 pro", "unknown gadget", "tesla model 3"})

	require.Len(t, results, 3)
	assert.Equal(t, "iphone 15 pro", results[0].Query)
	assert.True(t, results[0].Success)
	assert.Equal(t, "Apple", results[0].Data.Brand)

	// Demo mode never fails, even for unknown products
	assert.True(t, results[1].Success)
	assert.Equal(t, domain.BrandUnknown, results[1].Data.Brand)

	assert.Equal(t, "Tesla", results[2].Data.Brand)
}

func TestBulkSearch_IsolatesFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "live-key", BaseURL: server.URL})

	results := client.BulkSearch(context.Background(), []string{"a", "b"})

	require.Len(t, results, 2)
	for i, result := range results {
		assert.False(t, result.Success, "entry %d", i)
		assert.Equal(t, domain.BrandError, result.Data.Brand)
		assert.NotEmpty(t, result.Error)
		assert.Equal(t, []string{"error"}, result.Data.Sources)
	}
	assert.Equal(t, "a", results[0].Query)
	assert.Equal(t, "b", results[1].Query)
}

func TestValidateAPIKey(t *testing.T) {
	assert.False(t, ValidateAPIKey(""))
	assert.False(t, ValidateAPIKey("short"))
	assert.True(t, ValidateAPIKey("AIzaSyA-1234567890abcdefghij"))
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced with language", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.input))
		})
	}
}
