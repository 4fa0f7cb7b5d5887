package scoring

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
)

//go:embed rubric.go
var rubricSource string

// JudgeModel is the model used for rubric evaluation.
var JudgeModel = "gemini-2.0-flash"

type Criterion struct {
	Criterion string
	Weight    float64
}

// rubricScorer grades free-form output with an LLM judge. It is declared
// non-deterministic: the same (data, attempt) pair can score differently
// across calls. Each Score runs the judge several times and takes the median
// per criterion to dampen the variance.
type rubricScorer struct {
	Rounds int
}

func (s *rubricScorer) Score(data ScoringData, attempt Attempt) (float64, error) {
	criteria, err := parseCriteria(data["criteria"])
	if err != nil {
		return 0, err
	}
	if len(criteria) == 0 {
		return 0, fmt.Errorf("rubric scoring_data has no criteria")
	}
	taskDesc, _ := data["task_description"].(string)

	rounds := s.Rounds
	if rounds < 1 {
		rounds = 1
	}
	prompt := buildJudgePrompt(taskDesc, criteria, attempt.Output)

	allScores := make(map[string][]float64)
	for i := 0; i < rounds; i++ {
		scores, err := callJudge(context.Background(), prompt)
		if err != nil {
			log.Printf("rubric judge attempt %d failed: %v", i+1, err)
			continue
		}
		for k, v := range scores {
			allScores[k] = append(allScores[k], v)
		}
	}
	if len(allScores) == 0 {
		return 0, fmt.Errorf("rubric judge produced no scores")
	}

	medians := make(map[string]float64)
	for k, v := range allScores {
		medians[k] = MedianScore(v)
	}
	return WeightedRubricScore(criteria, medians), nil
}

func (s *rubricScorer) Source() string {
	return rubricSource
}

func parseCriteria(v interface{}) ([]Criterion, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("rubric scoring_data missing criteria list")
	}
	var criteria []Criterion
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		c := Criterion{Weight: 1}
		if name, ok := m["criterion"].(string); ok {
			c.Criterion = name
		}
		if w, ok := m["weight"].(float64); ok {
			c.Weight = w
		}
		if c.Criterion != "" {
			criteria = append(criteria, c)
		}
	}
	return criteria, nil
}

// WeightedRubricScore calculates a weighted average from per-criterion scores.
func WeightedRubricScore(criteria []Criterion, scores map[string]float64) float64 {
	var totalWeight, weightedSum float64
	for _, c := range criteria {
		score, ok := scores[c.Criterion]
		if !ok {
			continue
		}
		weightedSum += score * c.Weight
		totalWeight += c.Weight
	}
	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}

func buildJudgePrompt(taskDesc string, criteria []Criterion, output string) string {
	// Bound the judged text so it cannot blow the judge's context window.
	const maxOutputChars = 100_000
	if len(output) > maxOutputChars {
		output = output[:maxOutputChars] + fmt.Sprintf("\n\n... [truncated from %d chars] ...", len(output))
	}

	criteriaList := ""
	for _, c := range criteria {
		criteriaList += fmt.Sprintf("- %s (weight: %.0f)\n", c.Criterion, c.Weight)
	}
	return fmt.Sprintf(`You are an output quality judge. Score this output against each criterion on a scale of 0.0 to 1.0.

Task description:
%s

Criteria:
%s

Output:
%s

Respond with ONLY a JSON object mapping criterion name to score, e.g.:
{"Concise": 0.8, "Correct": 0.9}`, taskDesc, criteriaList, output)
}

// callJudge sends the prompt to the judge model's OpenAI-compatible endpoint.
func callJudge(ctx context.Context, prompt string) (map[string]float64, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := map[string]interface{}{
		"model":       JudgeModel,
		"max_tokens":  1024,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	bodyBytes, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST",
		"https://generativelanguage.googleapis.com/v1beta/openai/chat/completions",
		bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, fmt.Errorf("judge API returned %d: %v", resp.StatusCode, errBody)
	}

	var chatResult struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResult); err != nil {
		return nil, err
	}
	if len(chatResult.Choices) == 0 {
		return nil, fmt.Errorf("no choices in judge response")
	}
	return parseJudgeResponse(chatResult.Choices[0].Message.Content)
}

func parseJudgeResponse(content string) (map[string]float64, error) {
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var scores map[string]float64
	if err := json.Unmarshal([]byte(content), &scores); err != nil {
		return nil, fmt.Errorf("parsing judge response: %w", err)
	}
	return scores, nil
}

// MedianScore returns the median of a slice of scores.
func MedianScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
