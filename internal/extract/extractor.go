package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/vindo333/extractor/internal/doctree"
	"github.com/vindo333/extractor/internal/triple"
)

// Options tunes an Extractor. Zero values fall back to the defaults.
type Options struct {
	MaxTokens   int
	Temperature *float64 // nil means defaultTemperature; 0 is honoured
	Limiter     *rate.Limiter // nil means unlimited
	Stats       *LLMStats
	Log         *slog.Logger
}

const (
	defaultMaxTokens   = 1000
	defaultTemperature = 0.3
)

// Extractor turns one page's content into model-derived triples with a
// single provider request.
type Extractor struct {
	provider    Provider
	maxTokens   int
	temperature float64
	limiter     *rate.Limiter
	stats       *LLMStats
	log         *slog.Logger
}

func NewExtractor(provider Provider, opts Options) *Extractor {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	temperature := defaultTemperature
	if opts.Temperature != nil {
		temperature = max(*opts.Temperature, 0)
	}
	if opts.Stats == nil {
		opts.Stats = NewLLMStats(time.Hour)
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		provider:    provider,
		maxTokens:   opts.MaxTokens,
		temperature: temperature,
		limiter:     opts.Limiter,
		stats:       opts.Stats,
		log:         opts.Log,
	}
}

// Provider returns the underlying model provider.
func (e *Extractor) Provider() Provider { return e.provider }

// Stats returns the rolling latency aggregate of model calls.
func (e *Extractor) Stats() StatsSnapshot { return e.stats.Snapshot() }

// Extract issues one model request for the page and parses its reply.
// Failures are *ExternalServiceError or *ResponseFormatError.
func (e *Extractor) Extract(ctx context.Context, content doctree.ExtractedContent, credential, language string) ([]triple.Triple, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, &ExternalServiceError{Provider: e.provider.Name(), Message: err.Error()}
		}
	}

	prompt := Prompt{
		System:      SystemPrompt(language),
		User:        BuildPrompt(content, language),
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	}

	start := time.Now()
	text, err := e.provider.Complete(ctx, credential, prompt)
	elapsed := time.Since(start)
	e.stats.Record(elapsed, err != nil)
	if err != nil {
		var svcErr *ExternalServiceError
		if !errors.As(err, &svcErr) {
			err = &ExternalServiceError{Provider: e.provider.Name(), Message: err.Error()}
		}
		e.log.Warn("model call failed", "provider", e.provider.Name(), "duration_ms", elapsed.Milliseconds(), "error", err)
		return nil, err
	}

	triples, err := ParseTriples(text)
	if err != nil {
		e.log.Warn("unparseable model response", "provider", e.provider.Name(), "error", err)
		return nil, err
	}
	e.log.Debug("model triples parsed",
		"provider", e.provider.Name(),
		"model", e.provider.Model(),
		"duration_ms", elapsed.Milliseconds(),
		"triples", len(triples),
	)
	return triples, nil
}
