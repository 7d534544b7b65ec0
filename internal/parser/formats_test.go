package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindo333/extractor/internal/doctree"
)

func TestMarkdownParser(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.
`
	doc, err := (&MarkdownParser{}).Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "Title\nIntro text.\nSection A\nSection A content.", doc.MainContent)
	assert.Equal(t, []doctree.Heading{
		{Level: 1, Text: "Title", SectionContext: "main", Importance: 8},
		{Level: 2, Text: "Section A", SectionContext: "main", Importance: 7},
	}, doc.Headings)
}

func TestTextParser(t *testing.T) {
	input := "First line one.\n  First line two.  \n\n\n\nSecond paragraph.\n"
	doc, err := (&TextParser{}).Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "First line one.\nFirst line two.\nSecond paragraph.", doc.MainContent)
	assert.Empty(t, doc.Headings)
}

func TestTextParser_Empty(t *testing.T) {
	doc, err := (&TextParser{}).Parse(strings.NewReader("\n \n"))
	require.NoError(t, err)
	assert.Empty(t, doc.MainContent)
}

func TestCSVParser(t *testing.T) {
	input := "name,price,notes\nWidget,9.99,\nGadget, 12 ,extra,overflow\n"
	doc, err := (&CSVParser{}).Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "name: Widget, price: 9.99\nname: Gadget, price: 12, notes: extra, overflow", doc.MainContent)
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	doc, err := (&CSVParser{}).Parse(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.MainContent)
}

func TestPDFParser_InvalidInput(t *testing.T) {
	_, err := (&PDFParser{}).Parse(strings.NewReader("not a pdf"))
	assert.Error(t, err)
}

func TestDOCXParser_InvalidInput(t *testing.T) {
	_, err := (&DOCXParser{}).Parse(strings.NewReader("not a docx"))
	assert.Error(t, err)
}
