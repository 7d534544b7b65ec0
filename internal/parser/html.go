package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/vindo333/extractor/internal/doctree"
)

const sectionSelector = "article, section, main, [role=main]"

// HTMLParser extracts visible text, headings and JSON-LD from HTML pages.
type HTMLParser struct {
	Log *slog.Logger
}

func (p *HTMLParser) Parse(r io.Reader) (*Document, error) {
	log := orDiscard(p.Log)

	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return &Document{}, nil
	}

	out := &Document{
		MainContent: normalizeLines(visibleText(body.Nodes[0])),
		Headings:    extractHeadings(doc),
		JSONLD:      collectJSONLD(doc, log),
	}
	log.Debug("parsed html",
		"content_chars", len(out.MainContent),
		"headings", len(out.Headings),
		"jsonld", len(out.JSONLD),
	)
	return out, nil
}

// visibleText walks the tree depth-first. Hidden elements contribute an
// empty string; contributions are joined with newlines.
func visibleText(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return strings.TrimSpace(n.Data)
	case html.ElementNode:
		if isHidden(n) {
			return ""
		}
	default:
		return ""
	}

	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = append(parts, visibleText(c))
	}
	return strings.Join(parts, "\n")
}

func isHidden(n *html.Node) bool {
	switch n.Data {
	case "script", "style", "noscript":
		return true
	}
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "hidden":
			return true
		case "style":
			if hiddenByStyle(a.Val) {
				return true
			}
		}
	}
	return false
}

func hiddenByStyle(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important")))
		if (prop == "display" && val == "none") || (prop == "visibility" && val == "hidden") {
			return true
		}
	}
	return false
}

// normalizeLines drops the blank lines left by empty contributions.
func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func extractHeadings(doc *goquery.Document) []doctree.Heading {
	var headings []doctree.Heading
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return
		}
		level := headingLevel(goquery.NodeName(sel))
		section := sectionContext(sel)
		headings = append(headings, doctree.Heading{
			Level:          level,
			Text:           text,
			SectionContext: section,
			Importance:     Importance(level, section, siblingSample(sel.Nodes[0])),
		})
	})
	return headings
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// sectionContext names the nearest semantic container: its id, its first
// class, "main" for a role=main landmark, or its tag name.
func sectionContext(sel *goquery.Selection) string {
	container := sel.Parent().Closest(sectionSelector)
	if container.Length() == 0 {
		return doctree.DefaultSection
	}
	if id := strings.TrimSpace(container.AttrOr("id", "")); id != "" {
		return id
	}
	if classes := strings.Fields(container.AttrOr("class", "")); len(classes) > 0 {
		return classes[0]
	}
	if strings.EqualFold(container.AttrOr("role", ""), "main") {
		return doctree.DefaultSection
	}
	return goquery.NodeName(container)
}

// siblingSample concatenates the text of up to three following sibling
// elements.
func siblingSample(n *html.Node) string {
	var parts []string
	for s := n.NextSibling; s != nil && len(parts) < maxSiblingSample; s = s.NextSibling {
		if s.Type != html.ElementNode {
			continue
		}
		parts = append(parts, textContent(s))
	}
	return strings.Join(parts, " ")
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// collectJSONLD decodes every application/ld+json script independently.
// A @graph wrapper is replaced by its elements; a top-level array
// contributes each of its objects.
func collectJSONLD(doc *goquery.Document, log *slog.Logger) []map[string]any {
	var out []map[string]any
	index := 0
	doc.Find("script[type]").Each(func(_ int, sel *goquery.Selection) {
		typ := strings.ToLower(strings.TrimSpace(sel.AttrOr("type", "")))
		if !strings.HasPrefix(typ, "application/ld+json") {
			return
		}
		i := index
		index++

		var v any
		if err := json.Unmarshal([]byte(sel.Text()), &v); err != nil {
			perr := &ParseError{Index: i, Err: err}
			log.Warn("skipping malformed json-ld", "error", perr)
			return
		}
		switch x := v.(type) {
		case map[string]any:
			out = append(out, flattenGraph(x)...)
		case []any:
			for _, e := range x {
				if m, ok := e.(map[string]any); ok {
					out = append(out, flattenGraph(m)...)
				}
			}
		default:
			log.Warn("skipping malformed json-ld", "error", &ParseError{Index: i, Err: fmt.Errorf("unexpected %T", v)})
		}
	})
	return out
}

func flattenGraph(obj map[string]any) []map[string]any {
	graph, ok := obj["@graph"].([]any)
	if !ok {
		return []map[string]any{obj}
	}
	out := make([]map[string]any, 0, len(graph))
	for _, e := range graph {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
