// Package dedup collapses search hits that point into the same JSON
// subtree down to the single deepest match. A hit on
// "/app/author" and a hit on "/app" both surviving would show the same
// information twice; dedup keeps only the deepest (most specific) of
// any pointer chain, per source file.
package dedup

import (
	"sort"

	"jsonai/internal/pointer"
	"jsonai/internal/search"
)

// Dedup removes hits whose pointer is a strict prefix of another
// surviving hit's pointer within the same source file. Ties (same
// pointer, same file) are resolved by keeping the higher-scoring hit,
// then the earlier doc_id, mirroring Search's own tie-break so the
// result is deterministic regardless of input order.
func Dedup(hits []search.Hit) []search.Hit {
	if len(hits) == 0 {
		return hits
	}

	// Sort by (source_file, depth desc, score desc, doc_id asc) so that
	// for any chain of nested pointers we encounter the deepest
	// candidate first and can cheaply test new hits against what's
	// already been kept for that file.
	ordered := make([]search.Hit, len(hits))
	copy(ordered, hits)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Record.SourceFile != b.Record.SourceFile {
			return a.Record.SourceFile < b.Record.SourceFile
		}
		if a.Record.Depth != b.Record.Depth {
			return a.Record.Depth > b.Record.Depth
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Record.DocID < b.Record.DocID
	})

	kept := make([]search.Hit, 0, len(ordered))
	keptPointers := map[string][]pointer.Pointer{}

	for _, h := range ordered {
		file := h.Record.SourceFile
		p := h.Record.Pointer
		if isContainedByAny(p, keptPointers[file]) {
			continue
		}
		kept = append(kept, h)
		keptPointers[file] = append(keptPointers[file], p)
	}

	return kept
}

// isContainedByAny reports whether candidate is a strict ancestor of
// (token-wise proper prefix of), or identical to, any pointer already
// kept -- i.e. a
// deeper, more specific match for the same subtree has already been
// retained, so candidate is redundant.
func isContainedByAny(candidate pointer.Pointer, kept []pointer.Pointer) bool {
	for _, k := range kept {
		// k was kept earlier (same or greater depth). candidate is
		// redundant if a deeper kept pointer descends from it (k has
		// candidate as an ancestor), or if it's the exact same pointer.
		if k.HasPrefix(candidate) || samePointer(candidate, k) {
			return true
		}
	}
	return false
}

func samePointer(a, b pointer.Pointer) bool {
	return a.String() == b.String()
}
