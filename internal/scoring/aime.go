package scoring

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
)

//go:embed aime.go
var aimeSource string

// AIME answers are integers in [0, 999]. When the text declares several
// answers, the last valid one wins (models often revise mid-reasoning).
var aimeAnswerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\banswer\s*(?:is)?\s*:?\s*(-?\d+)`),
	regexp.MustCompile(`\\boxed\{(-?\d+)\}`),
	regexp.MustCompile(`(?m)^\s*(-?\d+)\s*$`),
}

// ExtractNumericalAnswer pulls the final numeric answer out of model output.
// Returns ok=false when nothing in range can be found.
func ExtractNumericalAnswer(text string) (int, bool) {
	best := -1
	bestPos := -1
	for _, re := range aimeAnswerPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			n, err := strconv.Atoi(text[m[2]:m[3]])
			if err != nil || n < 0 || n > 999 {
				continue
			}
			if m[0] > bestPos {
				best = n
				bestPos = m[0]
			}
		}
	}
	if bestPos < 0 {
		return 0, false
	}
	return best, true
}

type aimeScorer struct{}

func (s *aimeScorer) Score(data ScoringData, attempt Attempt) (float64, error) {
	expected, err := expectedInt(data["correct_answer"])
	if err != nil {
		return 0, fmt.Errorf("aime scoring_data: %w", err)
	}
	got, ok := ExtractNumericalAnswer(attempt.Output)
	if ok && got == expected {
		return 1.0, nil
	}
	return 0.0, nil
}

func (s *aimeScorer) Source() string {
	return aimeSource
}

// expectedInt accepts the integer shapes JSON decoding produces.
func expectedInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("correct_answer %q is not an integer", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("missing or non-numeric correct_answer")
	}
}
