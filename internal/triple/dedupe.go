package triple

// Dedupe drops invalid triples and every triple whose Key was already seen,
// keeping first-seen order.
func Dedupe(triples []Triple) []Triple {
	seen := make(map[string]struct{}, len(triples))
	out := make([]Triple, 0, len(triples))
	for _, t := range triples {
		if !t.Valid() {
			continue
		}
		key := t.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Merge combines structured-data triples with model triples. Structured
// triples come first, so they win over model duplicates.
func Merge(structured, model []Triple) []Triple {
	all := make([]Triple, 0, len(structured)+len(model))
	all = append(all, structured...)
	all = append(all, model...)
	return Dedupe(all)
}
