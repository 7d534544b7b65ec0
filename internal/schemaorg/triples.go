package schemaorg

import "github.com/vindo333/extractor/internal/triple"

// Triples projects Product and Organization facts into EAV triples keyed by
// the item's name. Items of other types contribute nothing, and blank values
// are skipped.
func Triples(items []Item) []triple.Triple {
	var out []triple.Triple
	add := func(entity, attribute, value string) {
		t := triple.NewEAV(entity, attribute, value)
		if t.Valid() {
			out = append(out, t)
		}
	}

	for _, item := range items {
		switch it := item.(type) {
		case Product:
			add(it.Name, "description", it.Description)
			add(it.Name, "price", it.Price)
			add(it.Name, "currency", it.Currency)
			add(it.Name, "availability", it.Availability)
		case Organization:
			add(it.Name, "description", it.Description)
			add(it.Name, "url", it.URL)
			add(it.Name, "telephone", it.Contacts.Telephone)
			add(it.Name, "email", it.Contacts.Email)
			for _, p := range it.SocialProfiles {
				add(it.Name, "social profile", p)
			}
		case WebPage, BreadcrumbList, Other:
		}
	}
	return out
}
