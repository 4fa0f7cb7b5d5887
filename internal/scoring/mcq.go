package scoring

import (
	_ "embed"
	"fmt"
)

//go:embed mcq.go
var mcqSource string

// mcqScorer grades multiple-choice answers: the attempt earns 1.0 when the
// extracted letter matches scoring_data.correct_answer, 0.0 otherwise.
type mcqScorer struct{}

func (s *mcqScorer) Score(data ScoringData, attempt Attempt) (float64, error) {
	expected, ok := data["correct_answer"].(string)
	if !ok {
		return 0, fmt.Errorf("mcq scoring_data missing correct_answer")
	}
	return ScoreLetterChoice(expected, attempt.Output, "ABCDE")
}

func (s *mcqScorer) Source() string {
	return mcqSource
}
