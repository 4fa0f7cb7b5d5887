// Package dataset reads scoring examples from JSON-lines files. Dataset
// production lives elsewhere; this side only consumes records of the agreed
// shape: {id, input, scoring_data}.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

type Example struct {
	ID          string                 `json:"id"`
	Input       string                 `json:"input"`
	ScoringData map[string]interface{} `json:"scoring_data"`
}

// Load reads all examples from a JSONL file. Blank lines are skipped;
// malformed lines are an error, since silently dropping examples would skew
// scores.
func Load(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer f.Close()

	var examples []Example
	scanner := bufio.NewScanner(f)
	// Inputs can carry whole documents; allow long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ex Example
		if err := json.Unmarshal([]byte(line), &ex); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", path, lineNum, err)
		}
		if ex.ID == "" {
			return nil, fmt.Errorf("%s line %d: missing id", path, lineNum)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return examples, nil
}

// Find returns the example with the given ID.
func Find(examples []Example, id string) (*Example, error) {
	for i := range examples {
		if examples[i].ID == id {
			return &examples[i], nil
		}
	}
	return nil, fmt.Errorf("example %q not found", id)
}

// Sample returns up to n examples drawn without replacement using the seeded
// source, so validation subsets are reproducible across passes.
func Sample(examples []Example, n int, seed int64) []Example {
	if n <= 0 || n >= len(examples) {
		out := make([]Example, len(examples))
		copy(out, examples)
		return out
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(examples))
	out := make([]Example, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, examples[idx])
	}
	return out
}
