package scoring

import "testing"

const tinySolution = `C A T
A . O
B U S

Across:
  1. CAT
  3. BUS

Down:
  1. CAB
  2. TOS`

func TestScoreCrosswordFullGrid(t *testing.T) {
	attempt := "C A T\nA . O\nB U S"
	score, correct, total := ScoreCrossword(tinySolution, attempt, ModeStrict)
	if total != 8 {
		t.Fatalf("total fillable squares = %d, want 8", total)
	}
	if correct != 8 || score != 1.0 {
		t.Errorf("got score %v (%d/%d), want 1.0", score, correct, total)
	}
}

func TestScoreCrosswordPartialGrid(t *testing.T) {
	attempt := "C A T\nA . O\nB U X"
	score, correct, total := ScoreCrossword(tinySolution, attempt, ModeStrict)
	if correct != 7 || total != 8 {
		t.Errorf("got %d/%d correct, want 7/8", correct, total)
	}
	if score <= 0.8 || score >= 0.9 {
		t.Errorf("score %v outside expected range", score)
	}
}

func TestScoreCrosswordAcrossSection(t *testing.T) {
	attempt := "Across:\n  1. CAT\n  3. BUS"
	_, correct, _ := ScoreCrossword(tinySolution, attempt, ModeStrict)
	// Both across words cover 6 of the 8 fillable squares.
	if correct != 6 {
		t.Errorf("got %d correct squares, want 6", correct)
	}
}

func TestScoreCrosswordModes(t *testing.T) {
	// Grid piece says T, across piece says X for the same square: strict
	// requires agreement, lenient accepts the correct instance.
	attempt := "C A T\nA . O\nB U S\n\nAcross:\n  1. CAX"
	_, strictCorrect, _ := ScoreCrossword(tinySolution, attempt, ModeStrict)
	_, lenientCorrect, _ := ScoreCrossword(tinySolution, attempt, ModeLenient)
	if strictCorrect != 7 {
		t.Errorf("strict: got %d correct, want 7", strictCorrect)
	}
	if lenientCorrect != 8 {
		t.Errorf("lenient: got %d correct, want 8", lenientCorrect)
	}
}

func TestScoreCrosswordEmptyAttempt(t *testing.T) {
	score, _, _ := ScoreCrossword(tinySolution, "", ModeStrict)
	if score != 0.0 {
		t.Errorf("empty attempt scored %v, want 0.0", score)
	}
}

func TestCrosswordLenientDomain(t *testing.T) {
	scorer, err := Resolve("crosswords-lenient")
	if err != nil {
		t.Fatal(err)
	}
	data := ScoringData{"solution": tinySolution}
	attempt := Attempt{Output: "C A T\nA . O\nB U S\n\nAcross:\n  1. CAX"}

	score, err := scorer.Score(data, attempt)
	if err != nil {
		t.Fatal(err)
	}
	if score != 1.0 {
		t.Errorf("lenient domain scored %v, want 1.0 despite the conflicting clue", score)
	}

	strictScorer, err := Resolve("crosswords")
	if err != nil {
		t.Fatal(err)
	}
	strictScore, err := strictScorer.Score(data, attempt)
	if err != nil {
		t.Fatal(err)
	}
	if strictScore >= score {
		t.Errorf("strict scored %v, want below lenient %v on a conflict", strictScore, score)
	}
}

func TestCrosswordScorerMissingSolution(t *testing.T) {
	s := &crosswordScorer{Mode: ModeStrict}
	if _, err := s.Score(ScoringData{}, Attempt{Output: "whatever"}); err == nil {
		t.Error("expected error for missing solution")
	}
}
