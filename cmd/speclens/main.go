package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/speclens/backend/config"
	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/infrastructure/gemini"
	"github.com/speclens/backend/internal/infrastructure/gs1"
	"github.com/speclens/backend/internal/infrastructure/icecat"
	"github.com/speclens/backend/internal/usecase"
)

var version = "1.0.0"

var (
	flagSources []string
	flagJSON    bool
	flagDemo    bool
	flagMax     int
	flagFile    string
	flagCSV     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "speclens",
		Short: "SpecLens - product specification lookup",
		Long: `SpecLens looks up structured product specifications (brand, model,
category, technical specs, price range, availability) from multiple data
sources and fuses the answers into a single record.

Without API keys the providers run on deterministic offline datasets, so
every command works out of the box.`,
	}

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Look up one product across the enabled sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := buildResolver()
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			spec := resolver.Resolve(context.Background(), query, enabledSources())

			if flagJSON {
				return printJSON(spec)
			}
			printSpec(query, spec)
			return nil
		},
	}
	searchCmd.Flags().StringSliceVar(&flagSources, "sources", []string{domain.SourceGoogle, domain.SourceIcecat, domain.SourceGS1}, "data sources to query")
	searchCmd.Flags().BoolVar(&flagJSON, "json", false, "print the fused record as JSON")
	searchCmd.Flags().BoolVar(&flagDemo, "demo", false, "force demo mode even when API keys are configured")

	bulkCmd := &cobra.Command{
		Use:   "bulk [queries...]",
		Short: "Look up many products and export tabular rows",
		Long: `Resolves each query in order and prints one flattened row per query.
Queries come from arguments or, with --file, from a file holding either a
JSON array or one query per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			queries := args
			if flagFile != "" {
				data, err := os.ReadFile(flagFile)
				if err != nil {
					return fmt.Errorf("failed to read query file: %w", err)
				}
				queries = usecase.ParseBulkInput(string(data))
			}
			if len(queries) == 0 {
				return fmt.Errorf("no queries supplied")
			}

			resolver, err := buildResolver()
			if err != nil {
				return err
			}
			bulkService := usecase.NewBulkService(resolver)

			rows := bulkService.ResolveMany(context.Background(), queries, enabledSources(), flagMax)

			if flagCSV != "" {
				return writeCSV(flagCSV, rows)
			}
			return printJSON(rows)
		},
	}
	bulkCmd.Flags().StringSliceVar(&flagSources, "sources", []string{domain.SourceGoogle, domain.SourceIcecat, domain.SourceGS1}, "data sources to query")
	bulkCmd.Flags().BoolVar(&flagDemo, "demo", false, "force demo mode even when API keys are configured")
	bulkCmd.Flags().IntVar(&flagMax, "max", 10, "maximum number of queries to process")
	bulkCmd.Flags().StringVar(&flagFile, "file", "", "file with queries (JSON array or one per line)")
	bulkCmd.Flags().StringVar(&flagCSV, "csv", "", "write results to a CSV file instead of printing JSON")

	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "List the available data sources",
		Run: func(cmd *cobra.Command, args []string) {
			for _, src := range domain.KnownSources {
				key := "no API key needed"
				if src.RequiresAPIKey {
					key = "API key required for live data"
				}
				fmt.Printf("%-8s %s - %s (%s)\n", src.ID, src.Name, src.Description, key)
			}
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("SpecLens v%s\n", version)
		},
	}

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildResolver wires the provider adapters from configuration.
func buildResolver() (*usecase.Resolver, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:    cfg.Gemini.APIKey,
		BaseURL:   cfg.Gemini.BaseURL,
		ForceDemo: cfg.Gemini.ForceDemo || flagDemo,
	})
	icecatClient := icecat.NewClient(icecat.Config{
		APIToken:     cfg.Icecat.APIToken,
		ContentToken: cfg.Icecat.ContentToken,
		BaseURL:      cfg.Icecat.BaseURL,
	})
	gs1Client := gs1.NewClient(gs1.Config{BaseURL: cfg.GS1.BaseURL})

	return usecase.NewResolver(map[string]domain.SpecProvider{
		domain.SourceGoogle: geminiClient,
		domain.SourceIcecat: icecatClient,
		domain.SourceGS1:    gs1Client,
	}), nil
}

func enabledSources() []string {
	if len(flagSources) == 0 {
		return []string{domain.SourceGoogle, domain.SourceIcecat, domain.SourceGS1}
	}
	return flagSources
}

// printSpec renders a fused record for the terminal.
func printSpec(query string, spec *domain.ProductSpec) {
	fmt.Printf("Query:        %s\n", query)
	fmt.Printf("Product:      %s %s\n", spec.Brand, spec.Model)
	fmt.Printf("Category:     %s\n", spec.Category)
	fmt.Printf("Price Range:  %s\n", spec.PriceRange)
	fmt.Printf("Availability: %s\n", spec.Availability)
	if len(spec.SearchedSources) > 0 {
		fmt.Printf("Searched:     %s\n", strings.Join(spec.SearchedSources, ", "))
	}

	if len(spec.Specifications) > 0 {
		fmt.Println("\nSpecifications:")
		fmt.Print(formatSpecifications(spec.Specifications))
	}

	if len(spec.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(spec.Sources, ", "))
	}
}

// formatSpecifications renders the free-form spec map, keys title-cased
// with underscores expanded, sorted for stable output.
func formatSpecifications(specs map[string]string) string {
	keys := make([]string, 0, len(specs))
	for key := range specs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		label := strings.ReplaceAll(key, "_", " ")
		words := strings.Fields(label)
		for i, word := range words {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
		fmt.Fprintf(&b, "  %s: %s\n", strings.Join(words, " "), specs[key])
	}
	return b.String()
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// writeCSV exports bulk rows to a CSV file, one row per query.
func writeCSV(path string, rows []usecase.BulkRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"query", "brand", "model", "category", "price_range", "availability", "specifications", "sources"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{row.Query, row.Brand, row.Model, row.Category, row.PriceRange, row.Availability, row.Specifications, row.Sources}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	fmt.Printf("Wrote %d rows to %s\n", len(rows), path)
	return nil
}
