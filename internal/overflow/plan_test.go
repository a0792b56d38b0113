package overflow

import (
	"testing"

	"jsonai/internal/jsonvalue"
	"jsonai/internal/search"
	"jsonai/internal/shred"
)

func recordWithSeverity(t *testing.T, severity string) *shred.Record {
	t.Helper()
	root, _, err := jsonvalue.Parse([]byte(`{"severity":"`+severity+`","msg":"error seen"}`), "f.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	records := shred.Shred(root, "f.json")
	shred.AssignDocIDs(records, 0)
	return &records[0]
}

func TestBuildSortsFieldsByCardinalityAscending(t *testing.T) {
	var hits []search.Hit
	severities := []string{"info", "warn", "error", "info", "warn", "error"}
	for _, s := range severities {
		hits = append(hits, search.Hit{Record: recordWithSeverity(t, s), Score: 1})
	}

	plan := Build(hits, "error", "f.json")
	if len(plan.Fields) == 0 {
		t.Fatal("expected at least one field stat")
	}
	for i := 1; i < len(plan.Fields); i++ {
		if plan.Fields[i-1].Cardinality > plan.Fields[i].Cardinality {
			t.Fatalf("fields not sorted ascending by cardinality: %+v", plan.Fields)
		}
	}
}

func TestBuildProducesFacetsAndCommands(t *testing.T) {
	var hits []search.Hit
	for i := 0; i < 6; i++ {
		sev := "info"
		if i%2 == 0 {
			sev = "error"
		}
		hits = append(hits, search.Hit{Record: recordWithSeverity(t, sev), Score: 1})
	}

	plan := Build(hits, "error", "f.json")
	if len(plan.Facets) == 0 {
		t.Fatal("expected at least one facet for low-cardinality field")
	}
	if len(plan.Commands) == 0 {
		t.Fatal("expected at least one narrowing command")
	}
	for _, c := range plan.Commands {
		if c == "" {
			t.Fatal("empty command string")
		}
	}
}

func TestShouldPlan(t *testing.T) {
	if !ShouldPlan(51, 50, false, false) {
		t.Fatal("expected plan when count exceeds threshold")
	}
	if ShouldPlan(10, 50, false, false) {
		t.Fatal("expected no plan under threshold")
	}
	if !ShouldPlan(1, 50, true, false) {
		t.Fatal("expected forced plan to override threshold")
	}
	if ShouldPlan(100, 50, true, true) {
		t.Fatal("expected --no-overflow to suppress even a forced plan")
	}
}

func TestBuildHighCardinalityFieldHasNoFacet(t *testing.T) {
	var hits []search.Hit
	for i := 0; i < 30; i++ {
		hits = append(hits, search.Hit{Record: recordWithSeverity(t, string(rune('a'+i))), Score: 1})
	}
	plan := Build(hits, "x", "f.json")
	for _, f := range plan.Facets {
		if f.Field == "severity" {
			t.Fatal("severity has cardinality > 20, should not get a facet")
		}
	}
}
