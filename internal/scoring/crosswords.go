package scoring

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

//go:embed crosswords.go
var crosswordSource string

type Mode string

const (
	// ModeStrict marks a square correct only if every piece that mentions it
	// agrees with the solution.
	ModeStrict Mode = "strict"
	// ModeLenient marks a square correct if any piece gets it right.
	ModeLenient Mode = "lenient"
)

// crosswordScorer grades a crossword attempt against the expected solution.
// The attempt is free-form: pieces separated by blank lines, each either a
// grid, an "Across:" clue list, or a "Down:" clue list. The score is the
// fraction of fillable squares answered correctly.
type crosswordScorer struct {
	Mode Mode
}

func (s *crosswordScorer) Score(data ScoringData, attempt Attempt) (float64, error) {
	expected, ok := data["solution"].(string)
	if !ok {
		return 0, fmt.Errorf("crosswords scoring_data missing solution")
	}
	score, _, _ := ScoreCrossword(expected, attempt.Output, s.Mode)
	return score, nil
}

func (s *crosswordScorer) Source() string {
	return crosswordSource
}

type gridPos struct{ row, col int }

var clueLineRe = regexp.MustCompile(`^\s*(\d+)\.\s*(.+)`)

// ScoreCrossword returns the fraction of correct fillable squares along with
// the correct and total counts.
func ScoreCrossword(expectedSolution, attemptedSolution string, mode Mode) (float64, int, int) {
	grid, across, down := parseExpectedSolution(expectedSolution)

	height := len(grid)
	width := 0
	if height > 0 {
		width = len(grid[0])
	}
	if width == 0 || height == 0 {
		return 0, 0, 0
	}

	content := strings.TrimSpace(attemptedSolution)
	if content == "" {
		return 0, 0, 0
	}

	correct := make(map[gridPos]bool)
	incorrect := make(map[gridPos]bool)

	for _, piece := range strings.Split(content, "\n\n") {
		piece = strings.TrimSpace(piece)
		switch {
		case piece == "":
		case strings.HasPrefix(piece, "Across:"):
			processClueSection(piece, across, grid, "across", correct, incorrect)
		case strings.HasPrefix(piece, "Down:"):
			processClueSection(piece, down, grid, "down", correct, incorrect)
		default:
			processGridSection(piece, grid, correct, incorrect)
		}
	}

	fillable := 0
	correctCount := 0
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if grid[row][col] == "." {
				continue
			}
			fillable++
			pos := gridPos{row, col}
			switch mode {
			case ModeLenient:
				if correct[pos] {
					correctCount++
				}
			default:
				if correct[pos] && !incorrect[pos] {
					correctCount++
				}
			}
		}
	}

	if fillable == 0 {
		return 0, 0, 0
	}
	return float64(correctCount) / float64(fillable), correctCount, fillable
}

// parseExpectedSolution splits the reference text into the grid rows and the
// numbered across/down answers.
func parseExpectedSolution(expected string) ([][]string, map[int]string, map[int]string) {
	lines := strings.Split(strings.TrimSpace(expected), "\n")

	var grid [][]string
	idx := 0
	for ; idx < len(lines); idx++ {
		line := strings.TrimSpace(lines[idx])
		if line == "" || strings.HasPrefix(line, "Across:") || strings.HasPrefix(line, "Down:") {
			break
		}
		grid = append(grid, strings.Fields(line))
	}

	across := make(map[int]string)
	down := make(map[int]string)
	section := ""
	for ; idx < len(lines); idx++ {
		line := strings.TrimSpace(lines[idx])
		switch {
		case strings.HasPrefix(line, "Across:"):
			section = "across"
		case strings.HasPrefix(line, "Down:"):
			section = "down"
		case line != "" && section != "":
			if m := clueLineRe.FindStringSubmatch(line); m != nil {
				num, _ := strconv.Atoi(m[1])
				answer := strings.ToUpper(strings.TrimSpace(m[2]))
				if section == "across" {
					across[num] = answer
				} else {
					down[num] = answer
				}
			}
		}
	}
	return grid, across, down
}

func processGridSection(piece string, grid [][]string, correct, incorrect map[gridPos]bool) {
	height := len(grid)
	width := len(grid[0])
	for rowIdx, line := range strings.Split(piece, "\n") {
		if rowIdx >= height {
			break
		}
		for colIdx, cell := range strings.Fields(line) {
			if colIdx >= width {
				break
			}
			expected := strings.ToUpper(grid[rowIdx][colIdx])
			if expected == "." {
				continue
			}
			pos := gridPos{rowIdx, colIdx}
			if strings.ToUpper(cell) == expected {
				correct[pos] = true
			} else {
				incorrect[pos] = true
			}
		}
	}
}

func processClueSection(piece string, expectedClues map[int]string, grid [][]string, direction string, correct, incorrect map[gridPos]bool) {
	height := len(grid)
	width := len(grid[0])
	lines := strings.Split(piece, "\n")
	for _, line := range lines[1:] { // skip the "Across:"/"Down:" header
		m := clueLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		answer := strings.ToUpper(strings.TrimSpace(m[2]))
		expectedAnswer, ok := expectedClues[num]
		if !ok {
			continue
		}
		row, col, found := findCluePosition(num, grid)
		if !found {
			continue
		}
		for i := 0; i < len(answer) && i < len(expectedAnswer); i++ {
			var pos gridPos
			if direction == "across" {
				if col+i >= width {
					break
				}
				pos = gridPos{row, col + i}
			} else {
				if row+i >= height {
					break
				}
				pos = gridPos{row + i, col}
			}
			if grid[pos.row][pos.col] == "." {
				continue
			}
			if answer[i] == expectedAnswer[i] {
				correct[pos] = true
			} else {
				incorrect[pos] = true
			}
		}
	}
}

// findCluePosition walks the grid applying standard crossword numbering to
// locate where a clue number starts.
func findCluePosition(clueNum int, grid [][]string) (int, int, bool) {
	height := len(grid)
	width := len(grid[0])
	current := 1
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if grid[row][col] == "." {
				continue
			}
			startsAcross := (col == 0 || grid[row][col-1] == ".") &&
				col+1 < width && grid[row][col+1] != "."
			startsDown := (row == 0 || grid[row-1][col] == ".") &&
				row+1 < height && grid[row+1][col] != "."
			if startsAcross || startsDown {
				if current == clueNum {
					return row, col, true
				}
				current++
			}
		}
	}
	return 0, 0, false
}
