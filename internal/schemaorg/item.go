// Package schemaorg normalizes raw JSON-LD objects into a closed set of
// item shapes keyed by @type.
package schemaorg

import "encoding/json"

// Item is a normalized schema.org object. The set of implementations is
// closed: Product, Organization, WebPage, BreadcrumbList and Other.
type Item interface {
	SchemaType() string
	isItem()
}

// Product is a normalized schema.org Product.
type Product struct {
	Type         string `json:"@type"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price,omitempty"`
	Currency     string `json:"currency,omitempty"`
	Availability string `json:"availability,omitempty"`
}

// Organization is a normalized schema.org Organization.
type Organization struct {
	Type           string   `json:"@type"`
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
	URL            string   `json:"url,omitempty"`
	SocialProfiles []string `json:"socialProfiles"`
	Contacts       Contacts `json:"contacts"`
}

// Contacts holds an organization's direct contact details.
type Contacts struct {
	Telephone string `json:"telephone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// WebPage covers both WebPage and ItemPage; Type keeps the original value.
type WebPage struct {
	Type          string `json:"@type"`
	Name          string `json:"name,omitempty"`
	URL           string `json:"url,omitempty"`
	DatePublished string `json:"datePublished,omitempty"`
	DateModified  string `json:"dateModified,omitempty"`
	Description   string `json:"description,omitempty"`
	InLanguage    string `json:"inLanguage,omitempty"`
}

// BreadcrumbList is a normalized schema.org BreadcrumbList.
type BreadcrumbList struct {
	Type  string       `json:"@type"`
	Items []Breadcrumb `json:"items"`
}

// Breadcrumb is one entry of a BreadcrumbList.
type Breadcrumb struct {
	Name     string `json:"name,omitempty"`
	URL      string `json:"url,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Other passes an object of any other @type through unchanged.
type Other struct {
	Type   string
	Fields map[string]any
}

func (p Product) SchemaType() string        { return p.Type }
func (o Organization) SchemaType() string   { return o.Type }
func (w WebPage) SchemaType() string        { return w.Type }
func (b BreadcrumbList) SchemaType() string { return b.Type }
func (o Other) SchemaType() string          { return o.Type }

func (Product) isItem()        {}
func (Organization) isItem()   {}
func (WebPage) isItem()        {}
func (BreadcrumbList) isItem() {}
func (Other) isItem()          {}

// MarshalJSON emits the original object.
func (o Other) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Fields)
}
