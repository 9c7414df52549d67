package icecat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient(Config{APIToken: "token", ContentToken: "content", BaseURL: "https://api.example.com"})

	assert.Equal(t, "token", client.apiToken)
	assert.Equal(t, "content", client.contentToken)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient(Config{})
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestSearch_NoToken_UsesDataset(t *testing.T) {
	client := NewClient(Config{})

	spec, err := client.Search(context.Background(), "dell p2422 monitor")

	require.NoError(t, err)
	assert.Equal(t, "Dell", spec.Brand)
	assert.Equal(t, []string{"icecat.biz"}, spec.Sources)
}

func TestSearch_LiveJSON(t *testing.T) {
	body := `{
		"data": {
			"GeneralInfo": {
				"Title": "P2422H 24-inch Monitor",
				"Brand": "Dell",
				"Category": {"Name": {"Value": "LCD Monitor"}},
				"Description": {"ShortDesc": "24-inch Full HD monitor"}
			},
			"FeaturesGroups": [{
				"Features": [
					{"Feature": {"Name": {"Value": "Screen Size"}}, "PresentationValue": "24 inches"},
					{"Feature": {"Name": {"Value": "Panel Type"}}, "PresentationValue": "IPS"}
				]
			}]
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "live-token", r.Header.Get("Api-Token"))
		assert.Equal(t, "dell p2422", r.URL.Query().Get("query"))
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(Config{APIToken: "live-token", BaseURL: server.URL, SearchBaseURL: server.URL})

	spec, err := client.Search(context.Background(), "dell p2422")

	require.NoError(t, err)
	assert.Equal(t, "Dell", spec.Brand)
	assert.Equal(t, "P2422H 24-inch Monitor", spec.Model)
	assert.Equal(t, "LCD Monitor", spec.Category)
	// Feature names become lowercase underscore keys
	assert.Equal(t, "24 inches", spec.Specifications["screen_size"])
	assert.Equal(t, "IPS", spec.Specifications["panel_type"])
	assert.Equal(t, "24-inch Full HD monitor", spec.Specifications["description"])
	assert.Equal(t, []string{"icecat.biz"}, spec.Sources)
}

func TestSearch_LiveXML(t *testing.T) {
	body := `<Product ID="210-AYLX" Name="P2422H" Supplier="Dell" CategoryName="LCD Monitor" HighPic="https://images.icecat.biz/p2422h.jpg">
		<ProductFeature CategoryFeature_Name="Screen Size" Presentation_Value="24 inches"/>
		<ProductFeature CategoryFeature_Name="Refresh Rate" Presentation_Value="60 Hz"/>
	</Product>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(Config{APIToken: "live-token", BaseURL: server.URL, SearchBaseURL: server.URL})

	spec, err := client.Search(context.Background(), "dell p2422")

	require.NoError(t, err)
	assert.Equal(t, "Dell", spec.Brand)
	assert.Equal(t, "P2422H", spec.Model)
	assert.Equal(t, "LCD Monitor", spec.Category)
	assert.Equal(t, "24 inches", spec.Specifications["screen_size"])
	assert.Equal(t, "60 Hz", spec.Specifications["refresh_rate"])
	assert.Equal(t, "210-AYLX", spec.Specifications["icecat_id"])
	assert.Equal(t, "https://images.icecat.biz/p2422h.jpg", spec.Specifications["product_url"])
}

func TestSearch_LiveFailure_DegradesToDataset(t *testing.T) {
	// Both live attempts hit the same failing server; the offline dataset
	// must still answer
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{APIToken: "live-token", BaseURL: server.URL, SearchBaseURL: server.URL})

	spec, err := client.Search(context.Background(), "samsung galaxy s24")

	require.NoError(t, err)
	assert.Equal(t, "Samsung", spec.Brand)
	assert.Equal(t, []string{"icecat.biz"}, spec.Sources)
}

func TestSearch_NetworkFailure_DegradesToDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused for both live attempts

	client := NewClient(Config{APIToken: "live-token", BaseURL: server.URL, SearchBaseURL: server.URL})

	spec, err := client.Search(context.Background(), "unknown gadget xyz")

	require.NoError(t, err)
	require.NotNil(t, spec)
	assert.NotEqual(t, "Not Found", spec.Brand)
}

func TestSearch_LiveGarbageBody_DegradesToDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json, not xml"))
	}))
	defer server.Close()

	client := NewClient(Config{APIToken: "live-token", BaseURL: server.URL, SearchBaseURL: server.URL})

	spec, err := client.Search(context.Background(), "gembird ups 850")

	require.NoError(t, err)
	assert.Equal(t, "Gembird", spec.Brand)
}

func TestSpecKey(t *testing.T) {
	assert.Equal(t, "screen_size", specKey("Screen Size"))
	assert.Equal(t, "main_camera_resolution", specKey("Main Camera Resolution"))
	assert.Equal(t, "ram", specKey("RAM"))
}
