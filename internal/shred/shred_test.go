package shred

import (
	"testing"

	"jsonai/internal/jsonvalue"
	"jsonai/internal/pointer"
)

func mustParse(t *testing.T, s string) *jsonvalue.Value {
	t.Helper()
	v, _, err := jsonvalue.Parse([]byte(s), "t.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return v
}

func TestShredEmitsObjectsAndArrayElements(t *testing.T) {
	root := mustParse(t, `[{"a":{"name":"john"}}]`)
	records := Shred(root, "f.json")

	var pointers []string
	for _, r := range records {
		pointers = append(pointers, r.Pointer.String())
	}

	want := map[string]bool{"/0": true, "/0/a": true}
	got := map[string]bool{}
	for _, p := range pointers {
		got[p] = true
	}
	for p := range want {
		if !got[p] {
			t.Errorf("missing expected record at %q, got %v", p, pointers)
		}
	}
	// Primitive leaves ("name") are never standalone records.
	if got["/0/a/name"] {
		t.Errorf("leaf string should not be shredded as its own record")
	}
	if len(records) != len(want) {
		t.Errorf("got %d records, want %d (exactly one per object/array element, no duplicates): %v", len(records), len(want), pointers)
	}
}

// TestShredArrayOfObjectsDoesNotDoubleCount guards against shredding
// an object array element twice: once from the array loop and again
// when the recursive walk re-enters the KindObject case for the same
// pointer. Array-of-objects is the most common real-world JSON shape,
// so one record per element must hold exactly.
func TestShredArrayOfObjectsDoesNotDoubleCount(t *testing.T) {
	root := mustParse(t, `[{"x":1},{"y":2},{"z":3}]`)
	records := Shred(root, "f.json")

	seen := map[string]int{}
	for _, r := range records {
		seen[r.Pointer.String()]++
	}
	for _, p := range []string{"/0", "/1", "/2"} {
		if seen[p] != 1 {
			t.Errorf("pointer %q recorded %d times, want exactly 1", p, seen[p])
		}
	}
	if len(records) != 3 {
		t.Errorf("got %d records for a 3-element object array, want 3", len(records))
	}
}

func TestShredRootObjectHasEmptyPointer(t *testing.T) {
	root := mustParse(t, `{"a":1}`)
	records := Shred(root, "f.json")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Pointer.String() != "" {
		t.Errorf("root record pointer = %q, want empty", records[0].Pointer.String())
	}
}

func TestShredPreservesSource(t *testing.T) {
	root := mustParse(t, `{"a":{"b":[1,{"c":2}]}}`)
	records := Shred(root, "f.json")
	for _, r := range records {
		got, err := pointer.Navigate(root, r.Pointer)
		if err != nil {
			t.Fatalf("Navigate(%q): %v", r.Pointer, err)
		}
		if !got.Equal(r.Payload) {
			t.Errorf("record at %q does not navigate back to its payload", r.Pointer)
		}
	}
}

func TestAssignDocIDsIsSequential(t *testing.T) {
	root := mustParse(t, `[{"x":1},{"y":2}]`)
	records := Shred(root, "f.json")
	next := AssignDocIDs(records, 5)
	for i, r := range records {
		if r.DocID != int64(5+i) {
			t.Errorf("record %d got doc_id %d, want %d", i, r.DocID, 5+i)
		}
	}
	if next != int64(5+len(records)) {
		t.Errorf("next = %d, want %d", next, 5+len(records))
	}
}

func TestLeafPaths(t *testing.T) {
	root := mustParse(t, `{"app":{"author":"me","version":1},"tags":["a","b"]}`)
	records := Shred(root, "f.json")
	paths := LeafPaths(records)
	want := map[string]bool{"app.author": true, "app.version": true}
	got := map[string]bool{}
	for _, p := range paths {
		got[p] = true
	}
	for p := range want {
		if !got[p] {
			t.Errorf("missing leaf path %q in %v", p, paths)
		}
	}
}

func TestFlattenNullContributesNothing(t *testing.T) {
	root := mustParse(t, `{"a":null,"b":"x"}`)
	records := Shred(root, "f.json")
	all := records[0].IndexedText["__all__"]
	if all != "x" {
		t.Errorf("__all__ = %q, want %q (null excluded)", all, "x")
	}
}
