package scoring

import (
	"strings"
	"testing"
)

func TestResolveKnownDomains(t *testing.T) {
	for _, domain := range []string{"mcq", "humanpref", "aime", "crosswords", "crosswords-lenient", "rubric"} {
		scorer, err := Resolve(domain)
		if err != nil {
			t.Errorf("Resolve(%q): %v", domain, err)
			continue
		}
		if scorer == nil {
			t.Errorf("Resolve(%q) returned nil scorer", domain)
		}
	}
}

func TestResolveUnknownDomain(t *testing.T) {
	if _, err := Resolve("haiku"); err == nil {
		t.Fatal("expected error for unknown domain")
	}
}

func TestSourceOf(t *testing.T) {
	src, err := SourceOf("mcq")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(src, "func (s *mcqScorer) Score") {
		t.Errorf("embedded source does not contain the scorer implementation:\n%s", src)
	}
}

func TestDomainsSorted(t *testing.T) {
	domains := Domains()
	if len(domains) < 5 {
		t.Fatalf("expected at least 5 domains, got %v", domains)
	}
	for i := 1; i < len(domains); i++ {
		if domains[i-1] >= domains[i] {
			t.Errorf("domains not sorted: %v", domains)
		}
	}
}

func TestMCQScore(t *testing.T) {
	scorer, err := Resolve("mcq")
	if err != nil {
		t.Fatal(err)
	}
	data := ScoringData{"correct_answer": "A"}

	score, err := scorer.Score(data, Attempt{Output: "The answer is A"})
	if err != nil {
		t.Fatal(err)
	}
	if score != 1.0 {
		t.Errorf("correct answer scored %v, want 1.0", score)
	}

	score, err = scorer.Score(data, Attempt{Output: "The answer is B"})
	if err != nil {
		t.Fatal(err)
	}
	if score != 0.0 {
		t.Errorf("wrong answer scored %v, want 0.0", score)
	}

	if _, err := scorer.Score(ScoringData{}, Attempt{Output: "A"}); err == nil {
		t.Error("expected error when correct_answer is missing")
	}
}

func TestHumanPrefScore(t *testing.T) {
	scorer, err := Resolve("humanpref")
	if err != nil {
		t.Fatal(err)
	}
	data := ScoringData{"correct_answer": "B"}
	score, err := scorer.Score(data, Attempt{Output: "I prefer B"})
	if err != nil {
		t.Fatal(err)
	}
	if score != 1.0 {
		t.Errorf("score = %v, want 1.0", score)
	}

	// C is not a valid choice between two responses.
	if _, err := scorer.Score(ScoringData{"correct_answer": "C"}, Attempt{Output: "C"}); err == nil {
		t.Error("expected error for correct_answer outside AB")
	}
}

func TestWeightedRubricScore(t *testing.T) {
	criteria := []Criterion{
		{Criterion: "Correct", Weight: 3},
		{Criterion: "Concise", Weight: 1},
	}
	scores := map[string]float64{"Correct": 1.0, "Concise": 0.5}
	got := WeightedRubricScore(criteria, scores)
	want := (1.0*3 + 0.5*1) / 4
	if got != want {
		t.Errorf("WeightedRubricScore = %v, want %v", got, want)
	}

	// Criteria the judge never scored drop out of the average.
	partial := map[string]float64{"Correct": 0.8}
	if got := WeightedRubricScore(criteria, partial); got != 0.8 {
		t.Errorf("partial scores = %v, want 0.8", got)
	}

	if got := WeightedRubricScore(criteria, nil); got != 0.0 {
		t.Errorf("no scores = %v, want 0.0", got)
	}
}

func TestMedianScore(t *testing.T) {
	tests := []struct {
		scores []float64
		want   float64
	}{
		{[]float64{0.5}, 0.5},
		{[]float64{0.2, 0.8}, 0.5},
		{[]float64{0.9, 0.1, 0.5}, 0.5},
		{[]float64{1, 0, 0, 1}, 0.5},
		{nil, 0.0},
	}
	for _, tt := range tests {
		if got := MedianScore(tt.scores); got != tt.want {
			t.Errorf("MedianScore(%v) = %v, want %v", tt.scores, got, tt.want)
		}
	}
}

func TestParseCriteria(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"criterion": "Clarity", "weight": 2.0},
		map[string]interface{}{"criterion": "Depth"},
	}
	criteria, err := parseCriteria(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(criteria) != 2 {
		t.Fatalf("got %d criteria, want 2", len(criteria))
	}
	if criteria[0].Weight != 2.0 {
		t.Errorf("explicit weight = %v, want 2", criteria[0].Weight)
	}
	if criteria[1].Weight != 1.0 {
		t.Errorf("default weight = %v, want 1", criteria[1].Weight)
	}

	if _, err := parseCriteria("not a list"); err == nil {
		t.Error("expected error for non-list criteria")
	}
}

func TestParseJudgeResponse(t *testing.T) {
	scores, err := parseJudgeResponse("```json\n{\"Correct\": 0.9}\n```")
	if err != nil {
		t.Fatal(err)
	}
	if scores["Correct"] != 0.9 {
		t.Errorf("scores = %v", scores)
	}

	if _, err := parseJudgeResponse("the model refused"); err == nil {
		t.Error("expected error for non-JSON judge output")
	}
}
