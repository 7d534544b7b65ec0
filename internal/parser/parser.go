package parser

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/vindo333/extractor/internal/doctree"
)

// Document is the structural parse of one page, before structured-data
// normalization.
type Document struct {
	MainContent string
	Headings    []doctree.Heading
	JSONLD      []map[string]any // Flattened raw JSON-LD objects
}

// Parser converts raw page bytes into a Document.
type Parser interface {
	Parse(r io.Reader) (*Document, error)
}

// ParseError is a malformed JSON-LD block. It is logged and skipped, never
// returned from Parse.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("json-ld block %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ForContentType picks a parser from the response media type, falling back
// to the URL's extension and finally to HTML.
func ForContentType(contentType, rawURL string, log *slog.Logger) Parser {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	ext := urlExt(rawURL)

	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return &HTMLParser{Log: log}
	case "text/markdown", "text/x-markdown":
		return &MarkdownParser{Log: log}
	case "text/csv":
		return &CSVParser{}
	case "application/pdf":
		return &PDFParser{FallbackPdftotext: true}
	case docxMediaType:
		return &DOCXParser{}
	case "text/plain":
		if ext == ".md" || ext == ".markdown" {
			return &MarkdownParser{Log: log}
		}
		return &TextParser{}
	}

	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{Log: log}
	case ".txt":
		return &TextParser{}
	case ".csv":
		return &CSVParser{}
	case ".pdf":
		return &PDFParser{FallbackPdftotext: true}
	case ".docx":
		return &DOCXParser{}
	}
	return &HTMLParser{Log: log}
}

func urlExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return log
}
