package main

import (
	"fmt"
	"log"
	"os"

	"github.com/speclens/backend/config"
	httpDelivery "github.com/speclens/backend/internal/delivery/http"
	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/infrastructure/cache"
	"github.com/speclens/backend/internal/infrastructure/gemini"
	"github.com/speclens/backend/internal/infrastructure/gs1"
	"github.com/speclens/backend/internal/infrastructure/icecat"
	"github.com/speclens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting SpecLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize provider adapters with explicit credentials
	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:    cfg.Gemini.APIKey,
		BaseURL:   cfg.Gemini.BaseURL,
		ForceDemo: cfg.Gemini.ForceDemo,
	})
	icecatClient := icecat.NewClient(icecat.Config{
		APIToken:     cfg.Icecat.APIToken,
		ContentToken: cfg.Icecat.ContentToken,
		BaseURL:      cfg.Icecat.BaseURL,
	})
	gs1Client := gs1.NewClient(gs1.Config{BaseURL: cfg.GS1.BaseURL})

	if gemini.ValidateAPIKey(cfg.Gemini.APIKey) {
		log.Printf("Gemini API configured: real-time web search enabled")
	} else {
		log.Printf("Gemini API key not configured - web search runs in demo mode")
	}
	if cfg.Icecat.APIToken != "" {
		log.Printf("Icecat API configured: %s", cfg.Icecat.BaseURL)
	} else {
		log.Printf("Icecat token not configured - catalog runs on the offline dataset")
	}

	// Initialize usecase layer
	resolver := usecase.NewResolver(map[string]domain.SpecProvider{
		domain.SourceGoogle: geminiClient,
		domain.SourceIcecat: icecatClient,
		domain.SourceGS1:    gs1Client,
	})
	bulkService := usecase.NewBulkService(resolver)

	// Enable debug logging in development environment
	if cfg.Server.Environment == "development" {
		geminiClient.SetDebug(true)
		icecatClient.SetDebug(true)
		resolver.SetDebug(true)
	}

	// Optional delivery-layer response cache
	var specCache domain.SpecCache
	if cfg.Cache.Enabled {
		specCache = cache.NewMemoryCache()
		log.Printf("Response cache enabled (TTL: %s)", cfg.Cache.TTL)
	}

	handler := httpDelivery.NewHandler(resolver, bulkService, specCache, httpDelivery.HandlerConfig{
		CacheTTL: cfg.Cache.TTL,
		MaxBulk:  cfg.Bulk.MaxQueries,
	})

	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
