package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "examples.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeDataset(t, `{"id": "ex-1", "input": "question one", "scoring_data": {"correct_answer": "A"}}

{"id": "ex-2", "input": "question two", "scoring_data": {"correct_answer": "B"}}
`)
	examples, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(examples) != 2 {
		t.Fatalf("got %d examples, want 2", len(examples))
	}
	if examples[0].ID != "ex-1" || examples[0].Input != "question one" {
		t.Errorf("first example = %+v", examples[0])
	}
	if examples[1].ScoringData["correct_answer"] != "B" {
		t.Errorf("scoring_data = %v", examples[1].ScoringData)
	}
}

func TestLoadMalformedLine(t *testing.T) {
	path := writeDataset(t, `{"id": "ok", "input": "x"}
{broken`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestLoadMissingID(t *testing.T) {
	path := writeDataset(t, `{"input": "no id here"}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for example without id")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFind(t *testing.T) {
	examples := []Example{{ID: "a"}, {ID: "b"}}
	ex, err := Find(examples, "b")
	if err != nil {
		t.Fatal(err)
	}
	if ex.ID != "b" {
		t.Errorf("Find returned %+v", ex)
	}
	if _, err := Find(examples, "z"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestSampleDeterministic(t *testing.T) {
	examples := make([]Example, 10)
	for i := range examples {
		examples[i] = Example{ID: string(rune('a' + i))}
	}

	first := Sample(examples, 4, 42)
	second := Sample(examples, 4, 42)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different samples: %v vs %v", first, second)
	}
	if len(first) != 4 {
		t.Errorf("got %d samples, want 4", len(first))
	}

	seen := make(map[string]bool)
	for _, ex := range first {
		if seen[ex.ID] {
			t.Errorf("duplicate sample %q", ex.ID)
		}
		seen[ex.ID] = true
	}
}

func TestSampleWholeSet(t *testing.T) {
	examples := []Example{{ID: "a"}, {ID: "b"}}
	got := Sample(examples, 0, 1)
	if len(got) != 2 {
		t.Errorf("n<=0 should return everything, got %d", len(got))
	}
	got = Sample(examples, 5, 1)
	if len(got) != 2 {
		t.Errorf("n beyond len should return everything, got %d", len(got))
	}
}
