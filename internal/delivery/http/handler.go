package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver *usecase.Resolver
	bulk     *usecase.BulkService
	cache    domain.SpecCache
	cacheTTL time.Duration
	maxBulk  int
}

// HandlerConfig tunes the handler
type HandlerConfig struct {
	CacheTTL time.Duration
	MaxBulk  int
}

// NewHandler creates a new HTTP handler. cache may be nil, which disables
// response caching entirely.
func NewHandler(resolver *usecase.Resolver, bulk *usecase.BulkService, cache domain.SpecCache, cfg HandlerConfig) *Handler {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	maxBulk := cfg.MaxBulk
	if maxBulk <= 0 {
		maxBulk = usecase.DefaultMaxBulkQueries
	}

	return &Handler{
		resolver: resolver,
		bulk:     bulk,
		cache:    cache,
		cacheTTL: cacheTTL,
		maxBulk:  maxBulk,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "speclens-backend",
		"version": "1.0.0",
	})
}

// ListSources returns the fixed data-source registry
func (h *Handler) ListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": domain.KnownSources})
}

// searchRequest is the body of POST /api/v1/specs/search
type searchRequest struct {
	Query   string   `json:"query" binding:"required"`
	Sources []string `json:"sources"`
}

// SearchSpec resolves a single query across the enabled sources
func (h *Handler) SearchSpec(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	sources := req.Sources
	if len(sources) == 0 {
		sources = []string{domain.SourceGoogle, domain.SourceIcecat, domain.SourceGS1}
	}

	cacheKey := specCacheKey(req.Query, sources)
	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), cacheKey); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	// Resolve never fails; provider problems come back inside the record
	spec := h.resolver.Resolve(c.Request.Context(), req.Query, sources)

	if h.cache != nil && spec.Brand != domain.BrandNoResults {
		_ = h.cache.Set(c.Request.Context(), cacheKey, spec, h.cacheTTL)
	}

	c.JSON(http.StatusOK, spec)
}

// bulkRequest is the body of POST /api/v1/specs/bulk. Queries may arrive
// as a list or as raw text (JSON array or newline-delimited).
type bulkRequest struct {
	Queries []string `json:"queries"`
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
	Max     int      `json:"max"`
}

// BulkSearch resolves an ordered batch of queries into flattened rows
func (h *Handler) BulkSearch(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	queries := req.Queries
	if len(queries) == 0 && req.Text != "" {
		queries = usecase.ParseBulkInput(req.Text)
	}
	if len(queries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no queries supplied"})
		return
	}

	sources := req.Sources
	if len(sources) == 0 {
		sources = []string{domain.SourceGoogle, domain.SourceIcecat, domain.SourceGS1}
	}

	maxCount := req.Max
	if maxCount <= 0 || maxCount > h.maxBulk {
		maxCount = h.maxBulk
	}

	rows := h.bulk.ResolveMany(c.Request.Context(), queries, sources, maxCount)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(rows),
		"results": rows,
	})
}

// specCacheKey normalizes a query + source set into a cache key.
// Format: "spec:{lowercased query}:{sources joined}"
func specCacheKey(query string, sources []string) string {
	return fmt.Sprintf("spec:%s:%s", strings.ToLower(strings.TrimSpace(query)), strings.Join(sources, ","))
}
