package importer

import (
	"fmt"
	"strings"
)

// Rule pulls one candidate value out of a row.
type Rule struct {
	Name    string
	header  string
	extract func(Row) (string, bool)
}

func (r Rule) Apply(row Row) (string, bool) {
	return r.extract(row)
}

// Header matches a column by its exact (case-insensitive) header text.
func Header(name string) Rule {
	return Rule{
		Name:    fmt.Sprintf("header %q", name),
		header:  name,
		extract: func(row Row) (string, bool) { return row.Get(name) },
	}
}

// Column reads the column at a zero-based position regardless of its header.
func Column(index int) Rule {
	return Rule{
		Name:    fmt.Sprintf("column %d", index+1),
		extract: func(row Row) (string, bool) { return row.At(index) },
	}
}

// HeaderContains takes the first column whose header contains substr.
func HeaderContains(substr string) Rule {
	needle := strings.ToLower(substr)
	return Rule{
		Name: fmt.Sprintf("header containing %q", substr),
		extract: func(row Row) (string, bool) {
			for i, h := range row.Headers() {
				if strings.Contains(strings.ToLower(h), needle) {
					if v, ok := row.At(i); ok {
						return v, true
					}
				}
			}
			return "", false
		},
	}
}

// FieldRules are tried in order; the first rule yielding a value wins.
type FieldRules struct {
	Field   string
	Rules   []Rule
	Default string
}

// Resolve returns the value and the name of the rule that produced it. When
// nothing matches, Default is returned with ok reporting whether it is set.
func (f FieldRules) Resolve(row Row) (value string, rule string, ok bool) {
	for _, r := range f.Rules {
		if v, found := r.Apply(row); found {
			return v, r.Name, true
		}
	}
	if f.Default != "" {
		return f.Default, "default", true
	}
	return "", "", false
}

// Labels lists the header names the rules look for.
func (f FieldRules) Labels() []string {
	var out []string
	for _, r := range f.Rules {
		if r.header != "" {
			out = append(out, r.header)
		}
	}
	return out
}

// IsLabel reports whether v is one of the header names, which happens when a
// header row is repeated inside the data.
func (f FieldRules) IsLabel(v string) bool {
	v = normalizeHeader(v)
	for _, l := range f.Labels() {
		if normalizeHeader(l) == v {
			return true
		}
	}
	return false
}

// HasHeader reports whether any of the named headers appears in headers.
func (f FieldRules) HasHeader(headers []string) bool {
	for _, h := range headers {
		if f.IsLabel(h) {
			return true
		}
	}
	return false
}

type Rules struct {
	RosterID  FieldRules
	FirstName FieldRules
	LastName  FieldRules

	FittingID FieldRules
	Uniform   FieldRules
	FitDate   FieldRules
}

const UnknownUniform = "Unknown"

func DefaultRules() Rules {
	return Rules{
		RosterID: FieldRules{
			Field: "tech id",
			Rules: []Rule{Header("Tech #"), Header("Tech"), Header("tech_id"), Column(0)},
		},
		FirstName: FieldRules{
			Field: "first name",
			Rules: []Rule{Header("First Name"), Header("First"), Column(1)},
		},
		LastName: FieldRules{
			Field: "last name",
			Rules: []Rule{Header("Last Name"), Header("Last"), Column(2)},
		},

		FittingID: FieldRules{
			Field: "tech id",
			Rules: []Rule{Header("Cintas ID"), Header("Tech #"), Header("tech_id"), Column(0)},
		},
		Uniform: FieldRules{
			Field:   "uniform set",
			Rules:   []Rule{Header("Uniform Set"), Header("Pants"), Header("Shirt"), HeaderContains("uniform")},
			Default: UnknownUniform,
		},
		FitDate: FieldRules{
			Field: "fit date",
			Rules: []Rule{Header("Date"), Header("Fit Date"), Header("Date Fitted"), HeaderContains("date")},
		},
	}
}
