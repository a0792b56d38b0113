package dedup

import (
	"testing"

	"jsonai/internal/jsonvalue"
	"jsonai/internal/search"
	"jsonai/internal/shred"
)

func hitsFor(t *testing.T, src, file string) []search.Hit {
	t.Helper()
	root, _, err := jsonvalue.Parse([]byte(src), file)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	records := shred.Shred(root, file)
	shred.AssignDocIDs(records, 0)
	hits := make([]search.Hit, len(records))
	for i := range records {
		hits[i] = search.Hit{Record: &records[i], Score: 1.0}
	}
	return hits
}

func TestDedupKeepsDeepestOfNestedChain(t *testing.T) {
	all := hitsFor(t, `{"app":{"author":"ada"}}`, "a.json")

	var parent, child search.Hit
	for _, h := range all {
		switch h.Record.Pointer.String() {
		case "":
			parent = h
		case "/app":
			child = h
		}
	}

	deduped := Dedup([]search.Hit{parent, child})
	if len(deduped) != 1 {
		t.Fatalf("got %d hits, want 1 (deepest only)", len(deduped))
	}
	if deduped[0].Record.Pointer.String() != "/app" {
		t.Fatalf("got pointer %q, want /app (the deeper match)", deduped[0].Record.Pointer.String())
	}
}

func TestDedupKeepsUnrelatedSiblings(t *testing.T) {
	all := hitsFor(t, `{"a":{"x":1},"b":{"y":2}}`, "a.json")

	var aHit, bHit search.Hit
	for _, h := range all {
		switch h.Record.Pointer.String() {
		case "/a":
			aHit = h
		case "/b":
			bHit = h
		}
	}

	deduped := Dedup([]search.Hit{aHit, bHit})
	if len(deduped) != 2 {
		t.Fatalf("got %d hits, want 2 (siblings are not contained)", len(deduped))
	}
}

func TestDedupIsPerSourceFile(t *testing.T) {
	aAll := hitsFor(t, `{"app":{"x":1}}`, "a.json")
	bAll := hitsFor(t, `{"app":{"x":1}}`, "b.json")

	var rootA, rootB search.Hit
	for _, h := range aAll {
		if h.Record.Pointer.String() == "" {
			rootA = h
		}
	}
	for _, h := range bAll {
		if h.Record.Pointer.String() == "" {
			rootB = h
		}
	}

	deduped := Dedup([]search.Hit{rootA, rootB})
	if len(deduped) != 2 {
		t.Fatalf("got %d hits, want 2 (different files never contain each other)", len(deduped))
	}
}

func TestDedupEmptyInput(t *testing.T) {
	if got := Dedup(nil); len(got) != 0 {
		t.Fatalf("got %d hits, want 0", len(got))
	}
}
