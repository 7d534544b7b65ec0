package schemaorg

import (
	"strconv"
	"strings"
)

type normalizer func(typ string, obj map[string]any) Item

var normalizers = map[string]normalizer{
	"Product":        normalizeProduct,
	"Organization":   normalizeOrganization,
	"WebPage":        normalizeWebPage,
	"ItemPage":       normalizeWebPage,
	"BreadcrumbList": normalizeBreadcrumbList,
}

// Normalize converts flattened JSON-LD objects into items. Objects without a
// @type are dropped; unknown types pass through as Other. Missing fields are
// left empty and never cause an error.
func Normalize(objects []map[string]any) []Item {
	items := make([]Item, 0, len(objects))
	for _, obj := range objects {
		if item, ok := NormalizeOne(obj); ok {
			items = append(items, item)
		}
	}
	return items
}

// NormalizeOne converts a single JSON-LD object.
func NormalizeOne(obj map[string]any) (Item, bool) {
	typ := TypeOf(obj)
	if typ == "" {
		return nil, false
	}
	if fn, ok := normalizers[typ]; ok {
		return fn(typ, obj), true
	}
	return Other{Type: typ, Fields: obj}, true
}

// TypeOf returns the object's @type, or the first string of a @type array.
func TypeOf(obj map[string]any) string {
	switch v := obj["@type"].(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func normalizeProduct(typ string, obj map[string]any) Item {
	p := Product{
		Type:        typ,
		Name:        text(obj["name"]),
		Description: text(obj["description"]),
	}

	for _, offer := range objects(obj["offers"]) {
		price, currency := text(offer["price"]), text(offer["priceCurrency"])
		if specs := objects(offer["priceSpecification"]); len(specs) > 0 {
			if v := text(specs[0]["price"]); v != "" {
				price = v
			}
			if v := text(specs[0]["priceCurrency"]); v != "" {
				currency = v
			}
		}
		if price != "" {
			p.Price = price
		}
		if currency != "" {
			p.Currency = currency
		}
		if avail := text(offer["availability"]); avail != "" {
			p.Availability = avail
		}
	}
	return p
}

func normalizeOrganization(typ string, obj map[string]any) Item {
	o := Organization{
		Type:           typ,
		Name:           text(obj["name"]),
		Description:    text(obj["description"]),
		URL:            text(obj["url"]),
		SocialProfiles: strs(obj["sameAs"]),
		Contacts: Contacts{
			Telephone: text(obj["telephone"]),
			Email:     text(obj["email"]),
		},
	}
	if cps := objects(obj["contactPoint"]); len(cps) > 0 {
		if o.Contacts.Telephone == "" {
			o.Contacts.Telephone = text(cps[0]["telephone"])
		}
		if o.Contacts.Email == "" {
			o.Contacts.Email = text(cps[0]["email"])
		}
	}
	return o
}

func normalizeWebPage(typ string, obj map[string]any) Item {
	return WebPage{
		Type:          typ,
		Name:          text(obj["name"]),
		URL:           text(obj["url"]),
		DatePublished: text(obj["datePublished"]),
		DateModified:  text(obj["dateModified"]),
		Description:   text(obj["description"]),
		InLanguage:    text(obj["inLanguage"]),
	}
}

func normalizeBreadcrumbList(_ string, obj map[string]any) Item {
	list := BreadcrumbList{Type: "BreadcrumbList", Items: []Breadcrumb{}}
	for _, el := range objects(obj["itemListElement"]) {
		crumb := Breadcrumb{Name: text(el["name"])}
		switch item := el["item"].(type) {
		case string:
			crumb.URL = strings.TrimSpace(item)
		case map[string]any:
			crumb.URL = text(item["@id"])
			if crumb.URL == "" {
				crumb.URL = text(item["url"])
			}
			if crumb.Name == "" {
				crumb.Name = text(item["name"])
			}
		}
		if pos, err := strconv.Atoi(text(el["position"])); err == nil {
			crumb.Position = pos
		}
		list.Items = append(list.Items, crumb)
	}
	return list
}

// text renders a scalar (or the first scalar of an array) as a trimmed string.
func text(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		for _, e := range x {
			if s := text(e); s != "" {
				return s
			}
		}
	}
	return ""
}

// objects accepts a single object or an array of them.
func objects(v any) []map[string]any {
	switch x := v.(type) {
	case map[string]any:
		return []map[string]any{x}
	case []any:
		out := make([]map[string]any, 0, len(x))
		for _, e := range x {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// strs accepts a single string or an array of them; never nil.
func strs(v any) []string {
	out := []string{}
	switch x := v.(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, e := range x {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	}
	return out
}
