package parser

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/yuin/goldmark"
)

// MarkdownParser renders Markdown pages to HTML with goldmark and then runs
// the HTML parser over the result, so headings and text follow the same rules.
type MarkdownParser struct {
	Log *slog.Logger
}

func (p *MarkdownParser) Parse(r io.Reader) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rendered bytes.Buffer
	rendered.WriteString("<html><body>")
	if err := goldmark.Convert(src, &rendered); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	rendered.WriteString("</body></html>")

	html := &HTMLParser{Log: p.Log}
	return html.Parse(&rendered)
}
