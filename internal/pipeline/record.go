package pipeline

import (
	"encoding/json"
	"time"

	"github.com/vindo333/extractor/internal/doctree"
	"github.com/vindo333/extractor/internal/schemaorg"
	"github.com/vindo333/extractor/internal/triple"
)

// Source is one page to process. Pages without a Body are fetched.
type Source struct {
	URL         string
	ContentType string
	Body        []byte
}

// Request is a batch of pages sharing a credential and language.
type Request struct {
	Sources        []Source
	Credential     string
	Language       string
	IncludeOutline bool
}

// EmptyContentError is a page with neither main content nor headings.
type EmptyContentError struct {
	URL string
}

func (e *EmptyContentError) Error() string { return "No meaningful content found" }

// ExtractionRecord is the final output for one URL. Failed records carry
// only the URL and the error.
type ExtractionRecord struct {
	URL            string                   `json:"url"`
	MainContent    string                   `json:"mainContent,omitempty"`
	Headings       []doctree.Heading        `json:"headings"`
	Triples        []triple.Triple          `json:"triples"`
	StructuredData []schemaorg.Item         `json:"structuredData"`
	Outline        []*doctree.HierarchyNode `json:"outline,omitempty"`
	ContentHash    string                   `json:"contentHash,omitempty"`
	Success        bool                     `json:"success"`
	Error          string                   `json:"error,omitempty"`
}

func (r ExtractionRecord) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			URL     string `json:"url"`
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{r.URL, false, r.Error})
	}

	type record ExtractionRecord
	out := record(r)
	if out.Headings == nil {
		out.Headings = []doctree.Heading{}
	}
	if out.Triples == nil {
		out.Triples = []triple.Triple{}
	}
	if out.StructuredData == nil {
		out.StructuredData = []schemaorg.Item{}
	}
	return json.Marshal(out)
}

func failedRecord(url string, err error) ExtractionRecord {
	return ExtractionRecord{URL: url, Error: err.Error()}
}

// BatchStats summarizes a batch.
type BatchStats struct {
	TotalURLs             int       `json:"totalUrls"`
	SuccessfulExtractions int       `json:"successfulExtractions"`
	FailedExtractions     int       `json:"failedExtractions"`
	CompletionTime        time.Time `json:"completionTime"`
}

// BatchResult holds one record per source, in input order.
type BatchResult struct {
	Success bool               `json:"success"`
	Results []ExtractionRecord `json:"results"`
	Stats   BatchStats         `json:"stats"`
}

func newBatchResult(records []ExtractionRecord) BatchResult {
	stats := BatchStats{TotalURLs: len(records), CompletionTime: time.Now().UTC()}
	for _, r := range records {
		if r.Success {
			stats.SuccessfulExtractions++
		} else {
			stats.FailedExtractions++
		}
	}
	if records == nil {
		records = []ExtractionRecord{}
	}
	return BatchResult{Success: true, Results: records, Stats: stats}
}
