// Package shred walks a parsed JSON tree and emits the addressable
// sub-documents jsonai indexes and deduplicates.
package shred

import (
	"strings"

	"jsonai/internal/jsonvalue"
	"jsonai/internal/pointer"
)

// Record is the unit of indexing. Payload is a shared
// reference into the parsed tree -- Shred never deep-copies.
type Record struct {
	DocID       int64
	SourceFile  string
	Pointer     pointer.Pointer
	Depth       int
	Payload     *jsonvalue.Value
	IndexedText map[string]string   // field -> tokenizable text, for text mode
	RawValues   map[string][]string // field -> literal canonical values, for exact/regex
}

// Shred walks root depth-first, pre-order, and returns one Record for
// every object and every array element.
// Primitive leaves are never emitted as standalone records. DocIDs are
// left zero; callers assign them afterward in canonical serial order
// -- doc_id assignment must not depend on parallel ingest timing.
func Shred(root *jsonvalue.Value, sourceFile string) []Record {
	var records []Record
	walk(root, nil, sourceFile, &records)
	return records
}

func walk(v *jsonvalue.Value, p pointer.Pointer, sourceFile string, out *[]Record) {
	if v == nil {
		return
	}
	switch v.Kind {
	case jsonvalue.KindObject:
		*out = append(*out, newRecord(v, p, sourceFile))
		v.Obj.Each(func(key string, child *jsonvalue.Value) {
			childPointer := appendToken(p, pointer.Token{Kind: pointer.KindKey, Key: key})
			walk(child, childPointer, sourceFile, out)
		})
	case jsonvalue.KindArray:
		for i, elem := range v.Arr {
			childPointer := appendToken(p, pointer.Token{Kind: pointer.KindIndex, Index: i})
			// Object elements get their record from the recursive
			// walk's own KindObject case below; pushing one here too
			// would shred the same pointer/payload twice.
			if elem == nil || elem.Kind != jsonvalue.KindObject {
				*out = append(*out, newRecord(elem, childPointer, sourceFile))
			}
			walk(elem, childPointer, sourceFile, out)
		}
	}
}

func appendToken(p pointer.Pointer, t pointer.Token) pointer.Pointer {
	next := make(pointer.Pointer, len(p)+1)
	copy(next, p)
	next[len(p)] = t
	return next
}

func newRecord(v *jsonvalue.Value, p pointer.Pointer, sourceFile string) Record {
	text, raw := flatten(v)
	return Record{
		SourceFile:  sourceFile,
		Pointer:     p,
		Depth:       p.Depth(),
		Payload:     v,
		IndexedText: text,
		RawValues:   raw,
	}
}

// AssignDocIDs stamps sequential doc_ids onto records in the order
// given, starting from start. Call this once, serially, over the
// concatenation of every file's shredded records in canonical
// file-sort order -- never inside a parallel ingest worker.
func AssignDocIDs(records []Record, start int64) int64 {
	next := start
	for i := range records {
		records[i].DocID = next
		next++
	}
	return next
}

// LeafPaths reports the set of dot-joined leaf field paths visible in
// the records' payloads, used by internal/index to discover the FTS
// schema dynamically.
func LeafPaths(records []Record) []string {
	seen := make(map[string]bool)
	var order []string
	for _, r := range records {
		collectLeafPaths(r.Payload, "", seen, &order)
	}
	return order
}

func collectLeafPaths(v *jsonvalue.Value, prefix string, seen map[string]bool, order *[]string) {
	if v == nil {
		return
	}
	switch v.Kind {
	case jsonvalue.KindObject:
		v.Obj.Each(func(key string, child *jsonvalue.Value) {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			addLeaf(child, path, seen, order)
		})
	case jsonvalue.KindArray:
		for _, elem := range v.Arr {
			addLeaf(elem, prefix, seen, order)
		}
	}
}

func addLeaf(v *jsonvalue.Value, path string, seen map[string]bool, order *[]string) {
	if v == nil {
		return
	}
	if v.IsContainer() {
		collectLeafPaths(v, path, seen, order)
		return
	}
	if path == "" {
		return
	}
	if !seen[path] {
		seen[path] = true
		*order = append(*order, path)
	}
}

// flatten produces the per-field indexed text and raw literal values
// for a single record's payload: one tokenized entry
// per leaf path plus the special "__all__" concatenation, and the
// literal (untokenized) values needed by exact/regex match modes.
func flatten(v *jsonvalue.Value) (text map[string]string, raw map[string][]string) {
	text = make(map[string]string)
	raw = make(map[string][]string)
	var all []string
	collectFieldText(v, "", text, raw, &all)
	text["__all__"] = strings.Join(all, " ")
	return text, raw
}

func collectFieldText(v *jsonvalue.Value, prefix string, text map[string]string, raw map[string][]string, all *[]string) {
	if v == nil {
		return
	}
	switch v.Kind {
	case jsonvalue.KindObject:
		v.Obj.Each(func(key string, child *jsonvalue.Value) {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			collectFieldText(child, path, text, raw, all)
		})
	case jsonvalue.KindArray:
		for _, elem := range v.Arr {
			collectFieldText(elem, prefix, text, raw, all)
		}
	case jsonvalue.KindNull:
		// null contributes nothing.
	default:
		literal := v.CanonicalText()
		if prefix != "" {
			if existing, ok := text[prefix]; ok {
				text[prefix] = existing + " " + literal
			} else {
				text[prefix] = literal
			}
			raw[prefix] = append(raw[prefix], literal)
		}
		*all = append(*all, literal)
	}
}
