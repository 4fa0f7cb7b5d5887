package pricing

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/halgrim/gauntlet/internal/gateway"
)

func loadTable(t *testing.T) *Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	content := `
openai:
  gpt-4o-mini:
    input: 0.00015
    output: 0.0006
anthropic:
  claude-sonnet-4:
    input: 0.003
    output: 0.015
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestCost(t *testing.T) {
	table := loadTable(t)
	got := table.Cost("openai", "gpt-4o-mini", 10_000, 2_000)
	want := 10.0*0.00015 + 2.0*0.0006
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Cost = %v, want %v", got, want)
	}
}

func TestCostUnknownModel(t *testing.T) {
	table := loadTable(t)
	if got := table.Cost("openai", "gpt-99", 1000, 1000); got != 0 {
		t.Errorf("unknown model cost = %v, want 0", got)
	}
	if got := table.Cost("mistral", "large", 1000, 1000); got != 0 {
		t.Errorf("unknown provider cost = %v, want 0", got)
	}
}

func TestEstimateRunCost(t *testing.T) {
	table := loadTable(t)
	records := []gateway.ModelCallRecord{
		{InputTokens: 1000, OutputTokens: 500},
		{InputTokens: 2000, OutputTokens: 1000},
	}
	got := table.EstimateRunCost("anthropic", "claude-sonnet-4", records)
	want := (1.0*0.003 + 0.5*0.015) + (2.0*0.003 + 1.0*0.015)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("EstimateRunCost = %v, want %v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing pricing file")
	}
}
