package parser

import "github.com/vindo333/extractor/internal/doctree"

const (
	maxSiblingSample  = 3
	longSiblingLength = 100
)

// Importance scores a heading from 1 to 10: shallower headings score higher,
// headings outside any named container get +2, and headings followed by more
// than 100 characters of sibling text get +1.
func Importance(level int, sectionContext, siblingText string) int {
	score := 7 - level
	if sectionContext == doctree.DefaultSection {
		score += 2
	}
	if len([]rune(siblingText)) > longSiblingLength {
		score++
	}
	return min(max(score, 1), 10)
}
