package triple

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the triple variant on the wire.
type Kind string

const (
	KindEAV Kind = "eav_triple"
	KindSPO Kind = "spo_triple"
)

// Triple is a single fact, either entity/attribute/value or
// subject/predicate/object. Only the fields of its Kind are meaningful.
type Triple struct {
	Type Kind `json:"type"`

	Entity    string `json:"entity,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Value     string `json:"value,omitempty"`

	Subject   string `json:"subject,omitempty"`
	Predicate string `json:"predicate,omitempty"`
	Object    string `json:"object,omitempty"`
}

// NewEAV builds an entity/attribute/value triple with trimmed fields.
func NewEAV(entity, attribute, value string) Triple {
	return Triple{
		Type:      KindEAV,
		Entity:    strings.TrimSpace(entity),
		Attribute: strings.TrimSpace(attribute),
		Value:     strings.TrimSpace(value),
	}
}

// NewSPO builds a subject/predicate/object triple with trimmed fields.
func NewSPO(subject, predicate, object string) Triple {
	return Triple{
		Type:      KindSPO,
		Subject:   strings.TrimSpace(subject),
		Predicate: strings.TrimSpace(predicate),
		Object:    strings.TrimSpace(object),
	}
}

// Valid reports whether every field of the triple's variant is non-blank.
func (t Triple) Valid() bool {
	switch t.Type {
	case KindEAV:
		return notBlank(t.Entity, t.Attribute, t.Value)
	case KindSPO:
		return notBlank(t.Subject, t.Predicate, t.Object)
	default:
		return false
	}
}

// Key is the case-insensitive identity used for deduplication, e.g.
// "spo:website:has section:about us".
func (t Triple) Key() string {
	var parts []string
	switch t.Type {
	case KindEAV:
		parts = []string{"eav", t.Entity, t.Attribute, t.Value}
	case KindSPO:
		parts = []string{"spo", t.Subject, t.Predicate, t.Object}
	default:
		parts = []string{string(t.Type)}
	}
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return strings.Join(parts, ":")
}

func (t Triple) String() string {
	if t.Type == KindEAV {
		return fmt.Sprintf("(%s, %s, %s)", t.Entity, t.Attribute, t.Value)
	}
	return fmt.Sprintf("(%s, %s, %s)", t.Subject, t.Predicate, t.Object)
}

func notBlank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// Decode reads one model-emitted triple object. The "type" tag accepts
// eav_triple, eav, spo_triple and spo in any case; without a tag the variant
// is inferred from the fields present. Scalar values are stringified. The
// result still has to pass Valid.
func Decode(raw json.RawMessage) (Triple, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Triple{}, false
	}

	kind, ok := kindOf(obj)
	if !ok {
		return Triple{}, false
	}

	var t Triple
	switch kind {
	case KindEAV:
		t = NewEAV(scalar(obj["entity"]), scalar(obj["attribute"]), scalar(obj["value"]))
	case KindSPO:
		t = NewSPO(scalar(obj["subject"]), scalar(obj["predicate"]), scalar(obj["object"]))
	}
	return t, t.Valid()
}

func kindOf(obj map[string]any) (Kind, bool) {
	if tag, ok := obj["type"].(string); ok && strings.TrimSpace(tag) != "" {
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case "eav_triple", "eav":
			return KindEAV, true
		case "spo_triple", "spo":
			return KindSPO, true
		default:
			return "", false
		}
	}
	_, hasEntity := obj["entity"]
	_, hasSubject := obj["subject"]
	switch {
	case hasEntity && !hasSubject:
		return KindEAV, true
	case hasSubject && !hasEntity:
		return KindSPO, true
	}
	return "", false
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
