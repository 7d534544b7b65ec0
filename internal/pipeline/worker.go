package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/vindo333/extractor/internal/doctree"
	"github.com/vindo333/extractor/internal/fetch"
	"github.com/vindo333/extractor/internal/parser"
	"github.com/vindo333/extractor/internal/schemaorg"
	"github.com/vindo333/extractor/internal/triple"
)

// Fetcher supplies raw page bytes for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// TripleExtractor derives triples from one page's content.
type TripleExtractor interface {
	Extract(ctx context.Context, content doctree.ExtractedContent, credential, language string) ([]triple.Triple, error)
}

// Worker processes a single page.
type Worker struct {
	fetcher    Fetcher
	extractor  TripleExtractor
	log        *slog.Logger
	maxRetries int
	backoff    func(attempt int) time.Duration
}

func NewWorker(fetcher Fetcher, extractor TripleExtractor, log *slog.Logger, maxRetries int) *Worker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Worker{
		fetcher:    fetcher,
		extractor:  extractor,
		log:        log,
		maxRetries: max(maxRetries, 0),
		backoff:    Backoff,
	}
}

// Process runs parse, normalize, model extraction and merge for one source.
// Every failure is captured in the returned record.
func (w *Worker) Process(ctx context.Context, src Source, req Request) ExtractionRecord {
	log := w.log.With("url", src.URL)
	start := time.Now()

	body, contentType := src.Body, src.ContentType
	if body == nil {
		page, err := w.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			log.Warn("fetch failed", "error", err)
			return failedRecord(src.URL, err)
		}
		body, contentType = page.Body, page.ContentType
	}

	doc, err := parser.ForContentType(contentType, src.URL, log).Parse(bytes.NewReader(body))
	if err != nil {
		log.Warn("parse failed", "error", err)
		return failedRecord(src.URL, fmt.Errorf("parse: %w", err))
	}

	items := schemaorg.Normalize(doc.JSONLD)
	content := doctree.ExtractedContent{
		MainContent:    doc.MainContent,
		Headings:       doc.Headings,
		StructuredData: items,
	}
	if content.Empty() {
		err := &EmptyContentError{URL: src.URL}
		log.Info("page has no content", "error", err)
		return failedRecord(src.URL, err)
	}

	modelTriples, err := w.extract(ctx, log, content, req)
	if err != nil {
		log.Warn("triple extraction failed", "error", err)
		return failedRecord(src.URL, err)
	}
	triples := triple.Merge(schemaorg.Triples(items), modelTriples)

	rec := ExtractionRecord{
		URL:            src.URL,
		MainContent:    content.MainContent,
		Headings:       content.Headings,
		Triples:        triples,
		StructuredData: items,
		ContentHash:    ContentHash(content.MainContent),
		Success:        true,
	}
	if req.IncludeOutline {
		rec.Outline = doctree.BuildHierarchy(content.Headings).Children
	}

	log.Info("page extracted",
		"headings", len(rec.Headings),
		"structured_items", len(items),
		"triples", len(triples),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rec
}

// extract calls the model, retrying rate-limit and server errors.
func (w *Worker) extract(ctx context.Context, log *slog.Logger, content doctree.ExtractedContent, req Request) ([]triple.Triple, error) {
	for attempt := 0; ; attempt++ {
		triples, err := w.extractor.Extract(ctx, content, req.Credential, req.Language)
		if err == nil || !IsRetryable(err) || attempt >= w.maxRetries {
			return triples, err
		}
		log.Warn("retryable extraction error", "attempt", attempt, "error", err)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// ContentHash is the xxhash64 of s as 16 hex digits.
func ContentHash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}
