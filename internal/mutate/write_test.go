package mutate

import (
	"os"
	"path/filepath"
	"testing"

	"jsonai/internal/jsonvalue"
)

func TestWriteAtomicReplacesDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(dest, []byte(`{"old":true}`), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	root := mustParse(t, `{"new":true}`)
	if err := Write(root, dest, false, false); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got, _, err := jsonvalue.Parse(data, dest)
	if err != nil {
		t.Fatalf("Parse written file: %v", err)
	}
	v, ok := got.Obj.Get("new")
	if !ok || !v.Bool {
		t.Fatalf("expected written file to contain new=true, got %s", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "doc.json" {
			t.Fatalf("leftover temp file was not cleaned up: %s", e.Name())
		}
	}
}

func TestWriteDryRunLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "doc.json")
	original := []byte(`{"old":true}`)
	if err := os.WriteFile(dest, original, 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	root := mustParse(t, `{"new":true}`)
	if err := Write(root, dest, true, false); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != string(original) {
		t.Fatalf("dry-run must not touch the destination file, got %s", data)
	}
}
