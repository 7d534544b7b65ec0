package doctree

import "github.com/vindo333/extractor/internal/schemaorg"

// DefaultSection is the section context of a heading with no enclosing
// semantic container.
const DefaultSection = "main"

// Heading is one h1..h6 element with its structural context.
type Heading struct {
	Level          int    `json:"level"`          // 1..6
	Text           string `json:"text"`           // Non-empty, whitespace-collapsed
	SectionContext string `json:"sectionContext"` // Nearest container id/class/tag, or "main"
	Importance     int    `json:"importance"`     // 1..10
}

// ExtractedContent is the per-page intermediate produced by parsing and
// normalization. It is owned by a single page run.
type ExtractedContent struct {
	MainContent    string           `json:"mainContent"`
	Headings       []Heading        `json:"headings"`
	StructuredData []schemaorg.Item `json:"structuredData"`
}

// Empty reports whether the page has neither main content nor headings.
func (c ExtractedContent) Empty() bool {
	return c.MainContent == "" && len(c.Headings) == 0
}

// HierarchyNode is a heading placed in the level-based outline.
type HierarchyNode struct {
	Text           string           `json:"text"`
	Level          int              `json:"level"`
	Importance     int              `json:"importance"`
	SectionContext string           `json:"sectionContext"`
	Children       []*HierarchyNode `json:"children"`
}
