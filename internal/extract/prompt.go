package extract

import (
	"fmt"
	"strings"

	"github.com/vindo333/extractor/internal/doctree"
)

// MaxContentRunes bounds the main content included in a prompt.
const MaxContentRunes = 1500

// DefaultLanguage is used when a request names no language or an unknown one.
const DefaultLanguage = "en"

var languageInstructions = map[string]string{
	"en": "Extract meaningful triples in English.",
	"de": "Extrahiere bedeutungsvolle Tripel auf Deutsch.",
	"fr": "Extrayez des triplets significatifs en français.",
	"es": "Extrae triples significativos en español.",
	"nl": "Extraheer betekenisvolle triples in het Nederlands.",
	"it": "Estrai triple significative in italiano.",
}

const extractionInstructions = `Extract knowledge triples from the web page below. Return a JSON array. Each element must be one of:

- {"type": "eav_triple", "entity": "...", "attribute": "...", "value": "..."} for a property of a thing
- {"type": "spo_triple", "subject": "...", "predicate": "...", "object": "..."} for a relation between two things

Rules:
- Every field must be a non-empty string
- Only extract facts stated in the headings or content; do not speculate
- Write each field in the requested language
- Return an empty array [] if nothing is worth extracting

Respond with ONLY the JSON array, no other text.`

// SystemPrompt is the system message for the given language code.
func SystemPrompt(language string) string {
	language = normalizeLanguage(language)
	return fmt.Sprintf("You are an expert in extracting information in %s. Format all responses in %s.", language, language)
}

// BuildPrompt creates the user message for one page: the language
// instruction, the output contract, the heading outline and the truncated
// main content.
func BuildPrompt(content doctree.ExtractedContent, language string) string {
	instruction, ok := languageInstructions[normalizeLanguage(language)]
	if !ok {
		instruction = languageInstructions[DefaultLanguage]
	}

	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\n")
	sb.WriteString(extractionInstructions)
	sb.WriteString("\n\n---\n")
	if len(content.Headings) > 0 {
		sb.WriteString("Headings:\n")
		for _, h := range content.Headings {
			fmt.Fprintf(&sb, "%s- [h%d] %s\n", strings.Repeat("  ", max(h.Level-1, 0)), h.Level, h.Text)
		}
		sb.WriteString("---\n")
	}
	sb.WriteString("Content:\n")
	sb.WriteString(TruncateContent(content.MainContent, MaxContentRunes))
	return sb.String()
}

// TruncateContent keeps the first n runes of s.
func TruncateContent(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return DefaultLanguage
	}
	return language
}
