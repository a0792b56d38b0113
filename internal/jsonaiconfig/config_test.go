package jsonaiconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesBuiltinDefaultsWhenNoFiles(t *testing.T) {
	dir := t.TempDir()
	d, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := builtin()
	if d != want {
		t.Fatalf("got %+v, want built-in defaults %+v", d, want)
	}
}

func TestLoadReadsYAMLConfigFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, fileName)
	if err := os.WriteFile(yamlPath, []byte("limit: 99\nthreshold: 10\npretty: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Limit != 99 || d.Threshold != 10 || !d.Pretty {
		t.Fatalf("unexpected config: %+v", d)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, fileName)
	if err := os.WriteFile(yamlPath, []byte("limit: 99\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("JSONAI_LIMIT", "5")
	d, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Limit != 5 {
		t.Fatalf("got limit=%d, want env override of 5", d.Limit)
	}
}

func TestLoadEnvFileOverridesAreLoaded(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("JSONAI_THRESHOLD=7\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("JSONAI_THRESHOLD") })
	d, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Threshold != 7 {
		t.Fatalf("got threshold=%d, want 7 from .env", d.Threshold)
	}
}
