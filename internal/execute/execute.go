// Package execute runs a candidate scaffold once inside a disposable sandbox
// and normalizes whatever happened into a Result. Setup failures (bad model
// spec, missing scaffold, docker errors) return a non-nil error; anything the
// candidate program itself does wrong is folded into the Result instead.
package execute

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/halgrim/gauntlet/internal/config"
	"github.com/halgrim/gauntlet/internal/docker"
	"github.com/halgrim/gauntlet/internal/gateway"
	"github.com/halgrim/gauntlet/internal/runlog"
	"github.com/halgrim/gauntlet/internal/scaffold"
)

type Request struct {
	Scaffold  *scaffold.Scaffold
	Input     string
	ModelSpec string
	Timeout   time.Duration
	// ThinkingBudgetTokens overrides the model's configured default when set.
	// An explicit zero disables extended reasoning; nil means "use the
	// model's default".
	ThinkingBudgetTokens *int
	ConsoleOutput        bool
	LogPath              string
}

type Result struct {
	Output        string
	ErrorMessage  string
	ExecutionTime time.Duration
	LogPath       string
	Stderr        string
	TimedOut      bool
	ModelCalls    []gateway.ModelCallRecord
}

// OK reports whether the scaffold produced a usable output.
func (r *Result) OK() bool {
	return r.ErrorMessage == ""
}

type Runner struct {
	Cfg *config.Config
}

// thinkingBudget resolves the effective thinking budget for a run. A request
// that sets the field wins even at zero, which turns extended reasoning off.
func thinkingBudget(req *Request, model *config.Model) int {
	if req.ThinkingBudgetTokens != nil {
		return *req.ThinkingBudgetTokens
	}
	return model.ThinkingBudgetTokens
}

// Run executes one scaffold against one input. Each call is self-contained:
// its own workspace, its own gateway, its own container, its own log file.
// Callers may invoke Run concurrently; bounding parallelism is their policy.
func (rn *Runner) Run(ctx context.Context, req *Request) (*Result, error) {
	if req.Scaffold == nil || req.Scaffold.Code == "" {
		return nil, fmt.Errorf("no scaffold to execute")
	}
	if req.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", req.Timeout)
	}

	// Resolve the model spec before anything is started so a typo fails fast.
	model, err := rn.Cfg.ResolveModel(req.ModelSpec)
	if err != nil {
		return nil, err
	}
	backend := gateway.Backend{
		Provider:             model.Provider,
		ModelID:              model.ModelID,
		BaseURL:              model.BaseURL,
		APIKey:               gateway.LookupAPIKey(model.APIKeyEnv, rn.Cfg.Secrets.EnvFile),
		MaxTokens:            model.MaxTokens,
		ThinkingBudgetTokens: thinkingBudget(req, model),
	}

	log, err := runlog.New(req.LogPath)
	if err != nil {
		return nil, err
	}
	defer log.Close()
	log.Header(req.ModelSpec, req.Input)

	workDir, err := os.MkdirTemp("", "gauntlet-run-")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := scaffold.Materialize(workDir, req.Scaffold, req.Input); err != nil {
		return nil, err
	}

	gw := gateway.New(backend, log)
	if err := gw.Start(); err != nil {
		return nil, err
	}
	defer gw.Stop()

	hostUID := fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
	containerResult, err := docker.RunContainer(ctx, &docker.RunOpts{
		Image:   rn.Cfg.Sandbox.Image,
		Command: []string{"python", "/workspace/run_scaffold.py"},
		WorkDir: workDir,
		Env: map[string]string{
			"GAUNTLET_GATEWAY_URL": gw.ContainerURL(),
			"EXECUTOR_MODEL_SPEC":  fmt.Sprintf("%s/%s", model.Provider, model.ModelID),
			"LOG_LEVEL":            "INFO",
		},
		Timeout:     req.Timeout,
		CPULimit:    rn.Cfg.Sandbox.CPULimit,
		MemoryLimit: rn.Cfg.Sandbox.MemoryLimitMB * 1024 * 1024,
		UserID:      hostUID,
	})
	if err != nil {
		log.Section("ERROR", fmt.Sprintf("sandbox setup failure: %v", err))
		return nil, fmt.Errorf("sandbox setup failure: %w", err)
	}

	log.Stream("STDOUT", containerResult.Stdout)
	log.Stream("STDERR", containerResult.Stderr)
	if req.ConsoleOutput {
		fmt.Fprint(os.Stdout, containerResult.Stdout)
		fmt.Fprint(os.Stderr, containerResult.Stderr)
	}

	result := normalize(containerResult, req.Timeout)
	result.LogPath = req.LogPath
	result.ModelCalls = gw.Records()
	if result.ErrorMessage != "" {
		log.Section("ERROR", result.ErrorMessage)
	}
	return result, nil
}
