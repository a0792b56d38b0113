// Package format renders search results into jsonai's output envelope,
// mirroring
// _examples/original_source/src/output.rs field-for-field: the same
// meta/results/hits shape, the same match/hit/value mode behavior, and
// the same --bare/--select/--max-bytes semantics.
package format

import (
	"strings"

	"jsonai/internal/apperr"
	"jsonai/internal/jsonvalue"
	"jsonai/internal/search"
)

// Mode is one of the three output modes.
type Mode string

const (
	ModeMatch Mode = "match"
	ModeHit   Mode = "hit"
	ModeValue Mode = "value"
)

// ParseMode validates a CLI-supplied output mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMatch, ModeHit, ModeValue:
		return Mode(s), nil
	default:
		return "", apperr.New(apperr.KindUsage, "unknown output mode %q (want match, hit, or value)", s)
	}
}

// Meta mirrors output.rs's Meta struct.
type Meta struct {
	Total         int  `json:"total"`
	Returned      int  `json:"returned"`
	Limit         int  `json:"limit"`
	Truncated     bool `json:"truncated"`
	FilesSearched int  `json:"files_searched,omitempty"`
}

// Hit mirrors output.rs's Hit struct.
type Hit struct {
	File    string           `json:"file"`
	Pointer string           `json:"pointer"`
	Record  *jsonvalue.Value `json:"record"`
	Score   float32          `json:"score"`
}

// Envelope mirrors output.rs's Envelope struct. Results and Hits are
// mutually exclusive depending on mode; both omitted in count-only
// mode.
type Envelope struct {
	Meta    Meta               `json:"meta"`
	Results []*jsonvalue.Value `json:"results,omitempty"`
	Hits    []Hit              `json:"hits,omitempty"`
}

// Options configures one render pass.
type Options struct {
	Mode          Mode
	Bare          bool
	CountOnly     bool
	Select        []string // dot-path leaf projections; nil means no projection
	MaxBytes      int      // <=0 means unlimited
	Pretty        bool
	FilesSearched int
	Limit         int
}

// Format renders hits (already deduped, paginated to at most
// opts.Limit by the caller) and totalMatched (the full pre-pagination
// count) into the final output bytes.
func Format(hits []search.Hit, totalMatched int, opts Options) ([]byte, error) {
	if opts.CountOnly {
		return formatCountOnly(totalMatched, opts)
	}

	switch opts.Mode {
	case ModeMatch:
		return formatMatch(hits, totalMatched, opts)
	case ModeHit:
		return formatHit(hits, totalMatched, opts)
	case ModeValue:
		return formatValue(hits, totalMatched, opts)
	default:
		return nil, apperr.New(apperr.KindUsage, "unknown output mode %q", opts.Mode)
	}
}

func formatCountOnly(totalMatched int, opts Options) ([]byte, error) {
	if opts.Bare {
		return []byte(itoa(totalMatched)), nil
	}
	env := Envelope{Meta: Meta{Total: totalMatched, Limit: opts.Limit, FilesSearched: opts.FilesSearched}}
	return marshalBudgeted(env, nil, opts)
}

func formatMatch(hits []search.Hit, totalMatched int, opts Options) ([]byte, error) {
	records := make([]*jsonvalue.Value, len(hits))
	for i, h := range hits {
		records[i] = projectFields(h.Record.Payload, opts.Select)
	}
	if opts.Bare {
		return marshalBareArray(records, opts)
	}
	env := Envelope{
		Meta: Meta{
			Total:         totalMatched,
			Returned:      len(records),
			Limit:         opts.Limit,
			Truncated:     totalMatched > opts.Limit,
			FilesSearched: opts.FilesSearched,
		},
		Results: records,
	}
	return marshalBudgeted(env, records, opts)
}

func formatHit(hits []search.Hit, totalMatched int, opts Options) ([]byte, error) {
	out := make([]Hit, len(hits))
	for i, h := range hits {
		out[i] = Hit{
			File:    h.Record.SourceFile,
			Pointer: h.Record.Pointer.String(),
			Record:  projectFields(h.Record.Payload, opts.Select),
			Score:   h.Score,
		}
	}
	if opts.Bare {
		return marshalBareHits(out, opts)
	}
	env := Envelope{
		Meta: Meta{
			Total:         totalMatched,
			Returned:      len(out),
			Limit:         opts.Limit,
			Truncated:     totalMatched > opts.Limit,
			FilesSearched: opts.FilesSearched,
		},
		Hits: out,
	}
	return marshalBudgetedHits(env, out, opts)
}

func formatValue(hits []search.Hit, totalMatched int, opts Options) ([]byte, error) {
	var values []*jsonvalue.Value
	for _, h := range hits {
		values = append(values, extractMatchingValues(h.Record.Payload)...)
	}
	if opts.Bare {
		return marshalBareArray(values, opts)
	}
	env := Envelope{
		Meta: Meta{
			Total:         totalMatched,
			Returned:      len(values),
			Limit:         opts.Limit,
			Truncated:     totalMatched > opts.Limit,
			FilesSearched: opts.FilesSearched,
		},
		Results: values,
	}
	return marshalBudgeted(env, values, opts)
}

// projectFields implements --select: keep only the named top-level or
// dot-path leaf fields, omitting (not nulling) anything absent.
func projectFields(v *jsonvalue.Value, selectFields []string) *jsonvalue.Value {
	if len(selectFields) == 0 {
		return v
	}
	if v == nil || v.Kind != jsonvalue.KindObject {
		return v
	}
	out := jsonvalue.NewOrderedMap()
	for _, path := range selectFields {
		if val, ok := lookupDotPath(v, path); ok {
			out.Set(path, val)
		}
	}
	return jsonvalue.Object(out)
}

func lookupDotPath(v *jsonvalue.Value, path string) (*jsonvalue.Value, bool) {
	current := v
	for _, seg := range strings.Split(path, ".") {
		if current == nil || current.Kind != jsonvalue.KindObject {
			return nil, false
		}
		next, ok := current.Obj.Get(seg)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// extractMatchingValues mirrors output.rs's extract_matching_values:
// for an object, every scalar top-level value; for anything else, the
// value itself.
func extractMatchingValues(v *jsonvalue.Value) []*jsonvalue.Value {
	if v == nil {
		return nil
	}
	if v.Kind != jsonvalue.KindObject {
		return []*jsonvalue.Value{v}
	}
	var out []*jsonvalue.Value
	v.Obj.Each(func(_ string, child *jsonvalue.Value) {
		switch child.Kind {
		case jsonvalue.KindString, jsonvalue.KindNumber, jsonvalue.KindBool:
			out = append(out, child)
		}
	})
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}
