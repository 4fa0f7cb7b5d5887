package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type generation struct {
	content        string
	inputTokens    int
	outputTokens   int
	thinkingTokens int
}

// generate forwards one prompt to the backend's OpenAI-compatible
// chat-completions endpoint. A zero thinking budget disables extended
// reasoning entirely; a positive one requests it with that budget.
func (g *Gateway) generate(ctx context.Context, prompt, systemPrompt string) (*generation, error) {
	reqBody := map[string]interface{}{
		"model":      g.backend.ModelID,
		"max_tokens": g.backend.MaxTokens,
	}
	var messages []map[string]string
	if systemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})
	reqBody["messages"] = messages

	if g.backend.ThinkingBudgetTokens > 0 {
		reqBody["thinking"] = map[string]interface{}{
			"type":          "enabled",
			"budget_tokens": g.backend.ThinkingBudgetTokens,
		}
	} else {
		reqBody["thinking"] = map[string]interface{}{"type": "disabled"}
	}

	bodyBytes, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST",
		g.backend.BaseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.backend.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.backend.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s backend: %w", g.backend.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, fmt.Errorf("%s backend returned %d: %v", g.backend.Provider, resp.StatusCode, errBody)
	}

	var chatResult struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			CompletionDetail struct {
				ReasoningTokens int `json:"reasoning_tokens"`
			} `json:"completion_tokens_details"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResult); err != nil {
		return nil, fmt.Errorf("parsing backend response: %w", err)
	}
	if len(chatResult.Choices) == 0 {
		return nil, fmt.Errorf("no choices in backend response")
	}

	return &generation{
		content:        chatResult.Choices[0].Message.Content,
		inputTokens:    chatResult.Usage.PromptTokens,
		outputTokens:   chatResult.Usage.CompletionTokens,
		thinkingTokens: chatResult.Usage.CompletionDetail.ReasoningTokens,
	}, nil
}
