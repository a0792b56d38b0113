package query

import (
	"testing"

	"jsonai/internal/jsonvalue"
	"jsonai/internal/shred"
)

func mustRecord(t *testing.T, s string) *shred.Record {
	t.Helper()
	root, _, err := jsonvalue.Parse([]byte(s), "t.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	records := shred.Shred(root, "t.json")
	if len(records) == 0 {
		t.Fatal("no records shredded")
	}
	return &records[0]
}

func TestCompileRejectsAllAndFields(t *testing.T) {
	_, err := Compile("x", ModeText, []string{"a"}, true)
	if err == nil {
		t.Fatal("expected usage error combining --all and --field")
	}
}

func TestCompileTextBuildsORAcrossFields(t *testing.T) {
	c, err := Compile("hello world", ModeText, []string{"title", "body"}, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !c.UsesEngine() {
		t.Fatal("text mode should use the index engine")
	}
	if c.FTSExpr == "" {
		t.Fatal("expected non-empty FTS expression")
	}
}

// TestCompileTextScopesEveryTokenToTheField guards against an FTS5
// column-filter regression: a bare "col:" prefix only scopes the
// single next token, so "title:hello world" would let "world" leak
// into an all-columns search. Multi-token field-scoped queries must
// parenthesize the whole term list so every token stays within field.
func TestCompileTextScopesEveryTokenToTheField(t *testing.T) {
	c, err := Compile("hello world", ModeText, []string{"title"}, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := `"title":(hello world)`
	if c.FTSExpr != want {
		t.Fatalf("FTSExpr = %q, want %q", c.FTSExpr, want)
	}
}

func TestCompileTextMultiFieldOrEachParenthesized(t *testing.T) {
	c, err := Compile("hello world", ModeText, []string{"title", "body"}, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := `"title":(hello world) OR "body":(hello world)`
	if c.FTSExpr != want {
		t.Fatalf("FTSExpr = %q, want %q", c.FTSExpr, want)
	}
}

func TestCompileExactMatchesLiteralValue(t *testing.T) {
	r := mustRecord(t, `{"name":"john"}`)
	c, err := Compile("john", ModeExact, []string{"name"}, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ok, score := c.Evaluate(r)
	if !ok || score <= 0 {
		t.Fatalf("expected exact match, got ok=%v score=%v", ok, score)
	}

	c2, _ := Compile("John", ModeExact, []string{"name"}, false)
	if ok, _ := c2.Evaluate(r); ok {
		t.Fatal("exact mode must be case-sensitive literal comparison")
	}
}

func TestCompileFuzzyRequiresAllTerms(t *testing.T) {
	r := mustRecord(t, `{"title":"phylogenetics workshop"}`)
	c, err := Compile("phylogentics workshp", ModeFuzzy, []string{"title"}, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ok, _ := c.Evaluate(r)
	if !ok {
		t.Fatal("expected fuzzy match within edit distance thresholds")
	}

	c2, _ := Compile("phylogentics zzzzzzzzzz", ModeFuzzy, []string{"title"}, false)
	if ok, _ := c2.Evaluate(r); ok {
		t.Fatal("fuzzy mode requires ALL terms to match")
	}
}

func TestCompileRegexAnchoring(t *testing.T) {
	r := mustRecord(t, `{"id":"abc123"}`)
	c, err := Compile("^abc", ModeRegex, []string{"id"}, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if ok, _ := c.Evaluate(r); !ok {
		t.Fatal("expected anchored regex to match")
	}

	c2, err := Compile("xyz$", ModeRegex, []string{"id"}, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if ok, _ := c2.Evaluate(r); ok {
		t.Fatal("anchored regex should not match")
	}
}

func TestCompileRegexInvalidPattern(t *testing.T) {
	_, err := Compile("(unclosed", ModeRegex, []string{"id"}, false)
	if err == nil {
		t.Fatal("expected error for uncompilable regex")
	}
}

func TestLevenshteinThresholds(t *testing.T) {
	if d := levenshtein("cat", "cats"); d != 1 {
		t.Errorf("got %d, want 1", d)
	}
	if d := levenshtein("same", "same"); d != 0 {
		t.Errorf("got %d, want 0", d)
	}
}
