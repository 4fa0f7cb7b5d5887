package scoring

import (
	"fmt"
	"regexp"
	"strings"
)

// Answer declarations are matched in priority order: an explicit "answer: X"
// beats a stray "I choose Y" earlier in the text.
var letterPatterns = []string{
	`(?i)\banswer\s*(?:is\s*)?[:\s]\s*\(?([%s])\)?`,
	`(?i)\banswer\s+is\s+\(?([%s])\)?`,
	`(?i)\b(?:choose|pick|select|prefer)\s+\(?([%s])\)?\b`,
	`(?i)\b(?:option|choice|response)\s+\(?([%s])\)?\b`,
	`\(([%s])\)`,
	`(?i)\b([%s])\s+is\s+(?:correct|right|the\s+(?:correct|right)\s+answer)`,
	`(?i)^\s*([%s])\s*[.:)]`,
	`(?i)^\s*([%s])\s*$`,
}

// ExtractAnswerLetter pulls a single answer letter out of free-form model
// output. validLetters bounds what counts as an answer (e.g. "AB" for
// pairwise preference, "ABCDE" for multiple choice). Returns "" when no
// answer can be found.
func ExtractAnswerLetter(text, validLetters string) string {
	if validLetters == "" {
		validLetters = "ABCDE"
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	class := regexp.QuoteMeta(strings.ToUpper(validLetters)) +
		regexp.QuoteMeta(strings.ToLower(validLetters))
	for _, pattern := range letterPatterns {
		re := regexp.MustCompile(fmt.Sprintf(pattern, class))
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}

// ScoreLetterChoice scores 1.0 when the extracted letter matches expected,
// 0.0 otherwise (including when nothing could be extracted).
func ScoreLetterChoice(expected, text, validLetters string) (float64, error) {
	if expected == "" {
		return 0, fmt.Errorf("expected answer must be a non-empty string")
	}
	if len(expected) != 1 {
		return 0, fmt.Errorf("expected answer must be a single letter, got %q", expected)
	}
	if !strings.Contains(strings.ToUpper(validLetters), strings.ToUpper(expected)) {
		return 0, fmt.Errorf("expected answer %q not among valid letters %q", expected, validLetters)
	}
	got := ExtractAnswerLetter(text, validLetters)
	if got != "" && strings.EqualFold(got, expected) {
		return 1.0, nil
	}
	return 0.0, nil
}
