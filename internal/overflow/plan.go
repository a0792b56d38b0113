// Package overflow builds a narrowing plan instead of result records
// when a search's post-dedup hit count exceeds the configured
// threshold. It summarizes field cardinalities and
// facets so a caller (often an autonomous agent) can narrow the query
// instead of receiving an unwieldy result set.
package overflow

import (
	"fmt"
	"sort"

	"jsonai/internal/search"

	"github.com/dustin/go-humanize"
)

// FieldStat reports a leaf field's distinct-value cardinality across
// the hit set.
type FieldStat struct {
	Field       string `json:"field"`
	Cardinality int    `json:"cardinality"`
}

// FacetValue is one value of a low-cardinality field, with its hit count.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facet lists the top values for one field.
type Facet struct {
	Field  string       `json:"field"`
	Values []FacetValue `json:"values"`
}

// Plan is the overflow response: no result records, just enough
// structure for a caller to narrow the query.
type Plan struct {
	Fields   []FieldStat `json:"fields"`
	Facets   []Facet     `json:"facets"`
	Commands []string    `json:"commands"`
	Note     string      `json:"note,omitempty"`
}

const facetCardinalityLimit = 20
const facetTopN = 5

// Build computes a Plan over the full deduped hit set (before
// pagination). query and inputArg are used to
// render the narrowing commands verbatim in the documented form:
// "jsonai search -q <query> --all -f <field> -q <value> <input>".
func Build(hits []search.Hit, query string, inputArg string) Plan {
	valueCounts := map[string]map[string]int{} // field -> value -> count

	for _, h := range hits {
		for field, values := range h.Record.RawValues {
			if _, ok := valueCounts[field]; !ok {
				valueCounts[field] = map[string]int{}
			}
			for _, v := range values {
				valueCounts[field][v]++
			}
		}
	}

	fields := make([]FieldStat, 0, len(valueCounts))
	for field, values := range valueCounts {
		fields = append(fields, FieldStat{Field: field, Cardinality: len(values)})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Cardinality != fields[j].Cardinality {
			return fields[i].Cardinality < fields[j].Cardinality
		}
		return fields[i].Field < fields[j].Field
	})

	var facets []Facet
	var commands []string
	for _, fs := range fields {
		if fs.Cardinality == 0 || fs.Cardinality > facetCardinalityLimit {
			continue
		}
		values := topValues(valueCounts[fs.Field], facetTopN)
		facets = append(facets, Facet{Field: fs.Field, Values: values})
		for _, v := range values {
			commands = append(commands, fmt.Sprintf("jsonai search -q %s --all -f %s -q %s %s", query, fs.Field, v.Value, inputArg))
		}
	}

	note := ""
	if len(hits) > 0 {
		note = fmt.Sprintf("%s hits exceeded the plan threshold; narrow with a facet command above", humanize.Comma(int64(len(hits))))
	}

	return Plan{Fields: fields, Facets: facets, Commands: commands, Note: note}
}

func topValues(counts map[string]int, n int) []FacetValue {
	out := make([]FacetValue, 0, len(counts))
	for v, c := range counts {
		out = append(out, FacetValue{Value: v, Count: c})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ShouldPlan decides whether a plan replaces result records:
// suppressed (--no-overflow) always wins, forced (--plan) returns a
// plan regardless of count, and otherwise a plan is returned when
// hitCount exceeds threshold.
func ShouldPlan(hitCount, threshold int, forced, suppressed bool) bool {
	if suppressed {
		return false
	}
	if forced {
		return true
	}
	return hitCount > threshold
}
