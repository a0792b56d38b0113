package index

import (
	"testing"

	"jsonai/internal/jsonvalue"
	"jsonai/internal/shred"
)

func buildTestShard(t *testing.T, src string) *Shard {
	t.Helper()
	root, _, err := jsonvalue.Parse([]byte(src), "t.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	records := shred.Shred(root, "t.json")
	shred.AssignDocIDs(records, 0)
	shard, err := Build("t.json", records, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { shard.Close() })
	return shard
}

func TestBuildDiscoversLeafFields(t *testing.T) {
	shard := buildTestShard(t, `{"app":{"author":"ada","title":"lovelace"}}`)
	if !shard.HasField("app.author") {
		t.Fatalf("expected discovered field app.author, got %v", shard.Fields)
	}
	if !shard.HasField("app.title") {
		t.Fatalf("expected discovered field app.title, got %v", shard.Fields)
	}
}

func TestBuildWithExplicitSchemaShortCircuits(t *testing.T) {
	root, _, err := jsonvalue.Parse([]byte(`{"app":{"author":"ada"}}`), "t.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	records := shred.Shred(root, "t.json")
	shred.AssignDocIDs(records, 0)

	shard, err := Build("t.json", records, []string{"app.author"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer shard.Close()

	if len(shard.Fields) != 1 || shard.Fields[0] != "app.author" {
		t.Fatalf("expected schema override to win, got %v", shard.Fields)
	}
}

func TestHasFieldUnknownNameIsFalseNotError(t *testing.T) {
	shard := buildTestShard(t, `{"app":{"author":"ada"}}`)
	if shard.HasField("nonexistent") {
		t.Fatal("unknown field should report false, not panic or error")
	}
}

func TestMatchDocIDsFindsTokenizedText(t *testing.T) {
	shard := buildTestShard(t, `{"title":"hello world"}`)
	scored, err := shard.MatchDocIDs(QuoteFTSColumn("title")+":hello", 10)
	if err != nil {
		t.Fatalf("MatchDocIDs: %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("got %d matches, want 1", len(scored))
	}
}

func TestMatchDocIDsNoMatch(t *testing.T) {
	shard := buildTestShard(t, `{"title":"hello world"}`)
	scored, err := shard.MatchDocIDs(QuoteFTSColumn("title")+":zzz", 10)
	if err != nil {
		t.Fatalf("MatchDocIDs: %v", err)
	}
	if len(scored) != 0 {
		t.Fatalf("got %d matches, want 0", len(scored))
	}
}

// TestMatchDocIDsZeroLimitMeansUnbounded guards against passing a
// perShardLimit of 0 straight into SQLite's LIMIT clause, where LIMIT
// 0 means "zero rows" rather than "unbounded" -- the sentinel search
// callers use for "no limit requested".
func TestMatchDocIDsZeroLimitMeansUnbounded(t *testing.T) {
	shard := buildTestShard(t, `{"title":"hello world"}`)
	scored, err := shard.MatchDocIDs(QuoteFTSColumn("title")+":hello", 0)
	if err != nil {
		t.Fatalf("MatchDocIDs: %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("got %d matches with limit=0, want 1 (0 must mean unbounded, not zero rows)", len(scored))
	}
}

func TestRecordByDocID(t *testing.T) {
	shard := buildTestShard(t, `{"a":1}`)
	rec, ok := shard.RecordByDocID(0)
	if !ok {
		t.Fatal("expected doc_id 0 to resolve")
	}
	if rec.SourceFile != "t.json" {
		t.Fatalf("unexpected source file %q", rec.SourceFile)
	}
}
