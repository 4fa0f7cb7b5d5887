// Package gateway mediates every model call a candidate program makes. One
// Gateway serves one sandbox execution: it binds a free localhost port, routes
// requests to the configured backend, meters the thinking budget, and appends
// a ModelCallRecord to the run log before the response is returned, so a crash
// right after a call still leaves a trace.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/halgrim/gauntlet/internal/runlog"
)

// Backend is the resolved binding for one model spec.
type Backend struct {
	Provider             string
	ModelID              string
	BaseURL              string
	APIKey               string
	MaxTokens            int
	ThinkingBudgetTokens int
}

type ModelCallRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	Prompt         string    `json:"prompt"`
	SystemPrompt   string    `json:"system_prompt,omitempty"`
	Response       string    `json:"response"`
	InputTokens    int       `json:"input_tokens"`
	OutputTokens   int       `json:"output_tokens"`
	ThinkingTokens int       `json:"thinking_tokens"`
	BudgetExceeded bool      `json:"budget_exceeded,omitempty"`
}

type Gateway struct {
	Port int

	backend Backend
	log     *runlog.Logger
	srv     *http.Server
	client  *http.Client

	mu           sync.Mutex
	thinkingUsed int
	records      []ModelCallRecord
}

func New(backend Backend, log *runlog.Logger) *Gateway {
	return &Gateway{
		backend: backend,
		log:     log,
		client:  &http.Client{},
	}
}

// Start binds a free localhost port and begins serving model calls. The
// listener is scoped to this execution and torn down by Stop.
func (g *Gateway) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("binding gateway port: %w", err)
	}
	g.Port = ln.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/execute", g.handleExecute)
	g.srv = &http.Server{Handler: mux}
	go g.srv.Serve(ln)
	return nil
}

func (g *Gateway) Stop() error {
	if g.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return g.srv.Shutdown(ctx)
}

func (g *Gateway) URL() string {
	return fmt.Sprintf("http://localhost:%d", g.Port)
}

// ContainerURL is the gateway address as seen from inside the sandbox.
func (g *Gateway) ContainerURL() string {
	return fmt.Sprintf("http://host.docker.internal:%d", g.Port)
}

// Records returns the model calls made so far during this execution.
func (g *Gateway) Records() []ModelCallRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ModelCallRecord, len(g.records))
	copy(out, g.records)
	return out
}

// ThinkingUsed reports cumulative thinking tokens consumed by this execution.
func (g *Gateway) ThinkingUsed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.thinkingUsed
}

type executeRequest struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"system_prompt"`
}

type executeResponse struct {
	Response string `json:"response"`
}

func (g *Gateway) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "empty prompt", http.StatusBadRequest)
		return
	}

	resp, err := g.generate(r.Context(), req.Prompt, req.SystemPrompt)
	if err != nil {
		// Backend failures are the candidate program's problem to handle.
		// No retries, no substituted defaults.
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	rec := ModelCallRecord{
		Timestamp:      time.Now().UTC(),
		Prompt:         req.Prompt,
		SystemPrompt:   req.SystemPrompt,
		Response:       resp.content,
		InputTokens:    resp.inputTokens,
		OutputTokens:   resp.outputTokens,
		ThinkingTokens: resp.thinkingTokens,
	}

	g.mu.Lock()
	budget := g.backend.ThinkingBudgetTokens
	g.thinkingUsed += resp.thinkingTokens
	// Metering is advisory: a call that overshoots the remaining budget has
	// already run, so record the overage instead of failing the call.
	if budget > 0 && g.thinkingUsed > budget {
		rec.BudgetExceeded = true
	}
	g.records = append(g.records, rec)
	g.mu.Unlock()

	if g.log != nil {
		data, _ := json.Marshal(rec)
		g.log.Section("MODEL CALL", string(data))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(executeResponse{Response: resp.content})
}

// TotalUsage sums token counts across records.
func TotalUsage(records []ModelCallRecord) (inputTokens, outputTokens int) {
	for _, r := range records {
		inputTokens += r.InputTokens
		outputTokens += r.OutputTokens
	}
	return
}
