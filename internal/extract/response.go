package extract

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/vindo333/extractor/internal/triple"
)

var errNoArray = errors.New("no JSON array found")

// ParseTriples reads the model's message content. The first bracket-delimited
// JSON array is extracted, so prose or code fences around it are tolerated.
// Elements that do not form a valid triple are dropped.
func ParseTriples(content string) ([]triple.Triple, error) {
	elems, err := decodeArray(content)
	if err != nil {
		return nil, &ResponseFormatError{Reason: err.Error(), Content: content}
	}

	triples := make([]triple.Triple, 0, len(elems))
	for _, elem := range elems {
		if t, ok := triple.Decode(elem); ok {
			triples = append(triples, t)
		}
	}
	return triples, nil
}

// decodeArray unmarshals the first bracket-delimited substring that is a JSON
// array. Candidates that fail to parse, such as "[see below]", are skipped and
// the scan resumes at the next '['. The first parse error is reported when no
// candidate succeeds.
func decodeArray(s string) ([]json.RawMessage, error) {
	var firstErr error
	for rest := s; ; {
		idx := strings.IndexByte(rest, '[')
		if idx < 0 {
			break
		}
		rest = rest[idx:]
		if raw, ok := firstArray(rest); ok {
			var elems []json.RawMessage
			err := json.Unmarshal([]byte(raw), &elems)
			if err == nil {
				return elems, nil
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		rest = rest[1:]
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, errNoArray
}

// firstArray returns the substring from the first '[' to its matching ']'.
// Brackets inside JSON string literals are ignored.
func firstArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
