package search

import (
	"testing"

	"jsonai/internal/index"
	"jsonai/internal/jsonvalue"
	"jsonai/internal/query"
	"jsonai/internal/shred"
)

func buildShard(t *testing.T, file, src string, startDocID int64) *index.Shard {
	t.Helper()
	root, _, err := jsonvalue.Parse([]byte(src), file)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	records := shred.Shred(root, file)
	shred.AssignDocIDs(records, startDocID)
	shard, err := index.Build(file, records, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { shard.Close() })
	return shard
}

func TestSearchTextModeAcrossShards(t *testing.T) {
	s1 := buildShard(t, "a.json", `{"title":"hello world"}`, 0)
	s2 := buildShard(t, "b.json", `{"title":"goodbye world"}`, 10)

	compiled, err := query.Compile("world", query.ModeText, nil, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	hits, err := Search([]*index.Shard{s1, s2}, compiled, 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
}

func TestSearchOrderingIsDeterministic(t *testing.T) {
	s1 := buildShard(t, "a.json", `{"tag":"x"}`, 0)
	compiled, _ := query.Compile("x", query.ModeExact, []string{"tag"}, false)

	for i := 0; i < 5; i++ {
		hits, err := Search([]*index.Shard{s1}, compiled, 50)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(hits) != 1 {
			t.Fatalf("got %d hits, want 1", len(hits))
		}
	}
}

func TestSearchNoMatch(t *testing.T) {
	s1 := buildShard(t, "a.json", `{"title":"hello"}`, 0)
	compiled, _ := query.Compile("zzzznotfound", query.ModeText, nil, true)
	hits, err := Search([]*index.Shard{s1}, compiled, 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("got %d hits, want 0", len(hits))
	}
}
