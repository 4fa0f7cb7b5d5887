// Package scoring resolves a domain name to its comparator. Each domain is an
// independent Scorer; the dispatch layer holds nothing beyond the registry.
// Every scorer also exposes its own source text, which one experimental
// condition embeds in prompts so models can see exactly how they are judged.
package scoring

import (
	"fmt"
	"sort"
)

// ScoringData is the domain-specific expected-answer mapping from a dataset
// record (e.g. correct_answer, solution, rubric criteria).
type ScoringData map[string]interface{}

// Attempt is what the candidate program produced.
type Attempt struct {
	Output string
}

type Scorer interface {
	// Score compares an attempt against the expected data. Higher is better;
	// every built-in domain scores in [0, 1].
	Score(data ScoringData, attempt Attempt) (float64, error)
	// Source returns the scorer's own definition text.
	Source() string
}

var registry = map[string]Scorer{
	"mcq":                &mcqScorer{},
	"humanpref":          &humanPrefScorer{},
	"aime":               &aimeScorer{},
	"crosswords":         &crosswordScorer{Mode: ModeStrict},
	"crosswords-lenient": &crosswordScorer{Mode: ModeLenient},
	"rubric":             &rubricScorer{Rounds: 3},
}

// Resolve returns the scorer registered for domain.
func Resolve(domain string) (Scorer, error) {
	s, ok := registry[domain]
	if !ok {
		return nil, fmt.Errorf("unknown scoring domain %q (have %v)", domain, Domains())
	}
	return s, nil
}

// SourceOf returns the source text of a domain's scorer.
func SourceOf(domain string) (string, error) {
	s, err := Resolve(domain)
	if err != nil {
		return "", err
	}
	return s.Source(), nil
}

// Domains lists registered domain names, sorted.
func Domains() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
