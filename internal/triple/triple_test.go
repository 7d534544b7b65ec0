package triple

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   Triple
		want bool
	}{
		{"eav complete", NewEAV("Acme", "founded", "1999"), true},
		{"eav blank value", NewEAV("Acme", "founded", "   "), false},
		{"eav missing entity", Triple{Type: KindEAV, Attribute: "a", Value: "v"}, false},
		{"spo complete", NewSPO("Website", "has section", "About Us"), true},
		{"spo blank predicate", Triple{Type: KindSPO, Subject: "s", Predicate: "\t", Object: "o"}, false},
		{"spo fields on eav tag", Triple{Type: KindEAV, Subject: "s", Predicate: "p", Object: "o"}, false},
		{"unknown tag", Triple{Type: "xyz", Subject: "s", Predicate: "p", Object: "o"}, false},
		{"zero value", Triple{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Valid())
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "eav:acme:founded:1999", NewEAV("Acme", "Founded", "1999").Key())
	assert.Equal(t, "spo:website:has section:about us", NewSPO("Website", "has section", "About Us").Key())
}

func TestDedupe_CaseInsensitive(t *testing.T) {
	a := Triple{Type: KindSPO, Subject: "Website", Predicate: "has section", Object: "About Us"}
	b := Triple{Type: KindSPO, Subject: "website", Predicate: "HAS SECTION", Object: "about us"}

	got := Dedupe([]Triple{a, b})

	require.Len(t, got, 1)
	assert.Equal(t, a, got[0])
}

func TestDedupe_VariantsDoNotCollide(t *testing.T) {
	got := Dedupe([]Triple{NewEAV("x", "y", "z"), NewSPO("x", "y", "z")})
	assert.Len(t, got, 2)
}

func TestDedupe_DropsInvalid(t *testing.T) {
	got := Dedupe([]Triple{NewSPO("", "p", "o"), NewSPO("s", "p", "o")})
	require.Len(t, got, 1)
	assert.Equal(t, "s", got[0].Subject)
}

func TestDedupe_IdempotentAndStable(t *testing.T) {
	in := []Triple{
		NewSPO("A", "is", "B"),
		NewEAV("Shop", "price", "10"),
		NewSPO("a", "IS", "b"),
		NewSPO("C", "is", "D"),
		NewEAV("shop", "Price", "10"),
		NewSPO("A", "is", "B"),
	}

	once := Dedupe(in)
	twice := Dedupe(once)

	assert.Equal(t, once, twice)
	require.Len(t, once, 3)
	assert.Equal(t, "A", once[0].Subject)
	assert.Equal(t, "Shop", once[1].Entity)
	assert.Equal(t, "C", once[2].Subject)
}

func TestMerge_StructuredFirst(t *testing.T) {
	structured := []Triple{NewEAV("Widget", "price", "19.99")}
	model := []Triple{NewEAV("widget", "PRICE", "19.99"), NewSPO("Widget", "made by", "Acme")}

	got := Merge(structured, model)

	require.Len(t, got, 2)
	assert.Equal(t, "Widget", got[0].Entity)
	assert.Equal(t, "price", got[0].Attribute)
	assert.Equal(t, KindSPO, got[1].Type)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		ok     bool
		expect Triple
	}{
		{
			name:   "spo tagged",
			raw:    `{"type":"spo_triple","subject":"X","predicate":"is","object":"Y"}`,
			ok:     true,
			expect: NewSPO("X", "is", "Y"),
		},
		{
			name:   "eav short tag mixed case",
			raw:    `{"type":"EAV","entity":" Acme ","attribute":"employees","value":250}`,
			ok:     true,
			expect: NewEAV("Acme", "employees", "250"),
		},
		{
			name:   "inferred spo",
			raw:    `{"subject":"A","predicate":"b","object":"C"}`,
			ok:     true,
			expect: NewSPO("A", "b", "C"),
		},
		{
			name:   "inferred eav",
			raw:    `{"entity":"A","attribute":"open","value":true}`,
			ok:     true,
			expect: NewEAV("A", "open", "true"),
		},
		{name: "unknown tag", raw: `{"type":"quad","subject":"A","predicate":"b","object":"C"}`},
		{name: "missing object", raw: `{"type":"spo_triple","subject":"A","predicate":"b"}`},
		{name: "legacy array", raw: `["A","b","C"]`},
		{name: "ambiguous fields", raw: `{"entity":"A","subject":"B"}`},
		{name: "not json", raw: `nope`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Decode(json.RawMessage(tc.raw))
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expect, got)
			}
		})
	}
}

func TestTripleJSONShape(t *testing.T) {
	b, err := json.Marshal(NewSPO("Website", "has section", "About Us"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"spo_triple","subject":"Website","predicate":"has section","object":"About Us"}`, string(b))
}
