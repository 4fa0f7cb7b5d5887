package scoring

import (
	_ "embed"
	"fmt"
)

//go:embed humanpref.go
var humanPrefSource string

// humanPrefScorer grades pairwise preference judgments. The attempt must name
// the response (A or B) that human raters preferred.
type humanPrefScorer struct{}

func (s *humanPrefScorer) Score(data ScoringData, attempt Attempt) (float64, error) {
	expected, ok := data["correct_answer"].(string)
	if !ok {
		return 0, fmt.Errorf("humanpref scoring_data missing correct_answer")
	}
	return ScoreLetterChoice(expected, attempt.Output, "AB")
}

func (s *humanPrefScorer) Source() string {
	return humanPrefSource
}
