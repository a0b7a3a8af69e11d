package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ramzilbs/radiance/internal/model"
	"github.com/ramzilbs/radiance/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outCSV        string
	outOdoo       string
	outXLSX       string
	outJSON       string
	minVisits     int
	threshold     float64
	referenceYear int
	concurrency   int
	noCache       bool
	llmEnabled    bool
	llmProvider   string
	llmModel      string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <input-dir>",
	Short: "Extract and consolidate loyal clients from a directory of agenda documents",
	Long: `Extract runs the full pipeline over a directory:
- Read every supported document (.docx, .xlsx, .csv)
- Parse names, phone numbers and visit dates out of the table cells
- Merge duplicate client identities with fuzzy matching
- Keep clients with at least the minimum number of visits
- Export the roster in the requested formats

Example:
  radiance extract ./agendas
  radiance extract ./agendas --csv clients.csv --odoo clients_odoo.csv
  radiance extract ./agendas --threshold 90 --min-visits 3 --xlsx roster.xlsx
  radiance extract ./agendas --llm --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Output flags
	extractCmd.Flags().StringVar(&outCSV, "csv", "clients_fideles.csv", "standard CSV output path")
	extractCmd.Flags().StringVar(&outOdoo, "odoo", "clients_fideles_odoo.csv", "Odoo contact CSV output path (empty to skip)")
	extractCmd.Flags().StringVar(&outXLSX, "xlsx", "", "Excel workbook output path (optional)")
	extractCmd.Flags().StringVar(&outJSON, "json", "", "JSON run report path (optional)")

	// Matching flags
	extractCmd.Flags().IntVar(&minVisits, "min-visits", 2, "minimum visits to count as loyal")
	extractCmd.Flags().Float64Var(&threshold, "threshold", 85.0, "similarity threshold for merging (0,100]")

	// Extraction flags
	extractCmd.Flags().IntVar(&referenceYear, "year", 0, "reference year for dates without one (0 = current year)")
	extractCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "parallel document parsers")
	extractCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable extraction cache (force re-parse)")

	// LLM flags
	extractCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate LLM import notes for the roster")
	extractCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	extractCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputDir := args[0]

	// Coarse cancellation: Ctrl-C stops before the next document.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.Match.Threshold = threshold
	cfg.Match.MinVisits = minVisits
	cfg.Dates.ReferenceYear = referenceYear
	cfg.Cache.Enabled = !noCache
	cfg.Workers.ParseWorkers = concurrency
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	// Configuration failures are fatal before any processing begins.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Input:      %s\n", inputDir)
		fmt.Fprintf(os.Stderr, "Threshold:  %.1f\n", cfg.Match.Threshold)
		fmt.Fprintf(os.Stderr, "Min visits: %d\n", cfg.Match.MinVisits)
		fmt.Fprintf(os.Stderr, "Cache:      %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	start := time.Now()
	p := pipeline.New(cfg, &stderrObserver{verbose: verbose})

	report, err := p.Run(ctx, inputDir)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	renderer := pipeline.NewRenderer(verbose)
	renderer.RenderSummary(os.Stderr, report)

	if err := renderer.Render(report, pipeline.Outputs{
		CSV:  outCSV,
		Odoo: outOdoo,
		XLSX: outXLSX,
		JSON: outJSON,
	}); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Done in %v\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
