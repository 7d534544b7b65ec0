package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/vindo333/extractor/internal/config"
	"github.com/vindo333/extractor/internal/extract"
	"github.com/vindo333/extractor/internal/fetch"
	"github.com/vindo333/extractor/internal/ioformats"
	"github.com/vindo333/extractor/internal/pipeline"
)

var (
	input       string
	output      string
	format      string
	language    string
	provider    string
	model       string
	apiKey      string
	concurrency int
	outline     bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "extract [url...]",
		Short: "Extract headings, schema.org data and knowledge triples from web pages",
		Long: `extract fetches each page, parses its visible text, headings and JSON-LD,
asks a language model for knowledge triples, and writes one record per URL.

Example:
  extract https://example.com --language de --outline
  extract --input urls.csv --format ndjson --output results.ndjson`,
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&input, "input", "i", "", "File with URLs (.csv, .ndjson/.jsonl, or one per line; - for stdin)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&format, "format", "f", ioformats.OutputJSON, "Output format: json, ndjson")
	rootCmd.Flags().StringVarP(&language, "language", "l", "", "Language code for extracted triples (default: DEFAULT_LANGUAGE or en)")
	rootCmd.Flags().StringVar(&provider, "provider", "", "Model provider: openai, anthropic, gemini (default: MODEL_PROVIDER or openai)")
	rootCmd.Flags().StringVar(&model, "model", "", "Specific model override")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Model API key (default: the provider's *_API_KEY variable)")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Pages processed at once (default: MAX_CONCURRENT_PAGES)")
	rootCmd.Flags().BoolVar(&outline, "outline", false, "Attach the heading outline to each record")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if provider != "" {
		cfg.ModelProvider = provider
	}
	if model != "" {
		cfg.ModelName = model
	}
	if language != "" {
		cfg.DefaultLanguage = language
	}
	if concurrency > 0 {
		cfg.MaxConcurrentPages = concurrency
	}
	cfg.LogFormat = "text"
	if verbose {
		cfg.LogLevel = "debug"
	} else {
		cfg.LogLevel = "warn"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := ioformats.CheckOutputFormat(format); err != nil {
		return err
	}
	log := cfg.Logger(os.Stderr)

	urls := append([]string(nil), args...)
	if input != "" {
		fromFile, err := readInput(input)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given: pass them as arguments or with --input")
	}

	credential := apiKey
	if credential == "" {
		credential = cfg.APIKey()
	}
	if credential == "" {
		return extract.ErrMissingCredential
	}

	p, err := extract.NewProvider(cfg.ModelProvider, cfg.ModelName, extract.ProviderOptions{
		BaseURL: cfg.ModelBaseURL,
		Timeout: cfg.ModelTimeout,
	})
	if err != nil {
		return err
	}
	var limiter *rate.Limiter
	if cfg.ModelRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ModelRPS), 1)
	}
	extractor := extract.NewExtractor(p, extract.Options{
		MaxTokens:   cfg.ModelMaxTokens,
		Temperature: &cfg.ModelTemperature,
		Limiter:     limiter,
		Log:         log,
	})
	fetcher := fetch.NewClient(fetch.Options{
		Timeout:   cfg.FetchTimeout,
		MaxBytes:  cfg.MaxPageBytes,
		UserAgent: cfg.UserAgent,
		Log:       log,
	})
	orch := pipeline.NewOrchestrator(fetcher, extractor, pipeline.Options{
		Concurrency: cfg.MaxConcurrentPages,
		MaxRetries:  cfg.ModelMaxRetries,
		Log:         log,
	})

	req := pipeline.Request{
		Credential:     credential,
		Language:       cfg.DefaultLanguage,
		IncludeOutline: outline,
	}
	for _, u := range urls {
		req.Sources = append(req.Sources, pipeline.Source{URL: u})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	result := orch.Run(ctx, req)

	if output != "" {
		err = ioformats.WriteResultFile(output, result, format)
	} else {
		err = ioformats.WriteResult(cmd.OutOrStdout(), result, format)
	}
	if err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "✓ %d/%d pages extracted\n",
		result.Stats.SuccessfulExtractions, result.Stats.TotalURLs)
	return nil
}

func readInput(path string) ([]string, error) {
	if path == "-" {
		return ioformats.ReadURLs(os.Stdin, ioformats.FormatLines)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return ioformats.ReadURLs(f, ioformats.FormatForPath(path))
}
