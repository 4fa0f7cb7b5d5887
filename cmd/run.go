package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/halgrim/gauntlet/internal/config"
	"github.com/halgrim/gauntlet/internal/execute"
	"github.com/halgrim/gauntlet/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	flagScaffoldDir    string
	flagInput          string
	flagInputFile      string
	flagModel          string
	flagTimeoutSec     int
	flagThinkingBudget int
	flagConsole        bool
	flagLogPath        string
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a scaffold once against an input",
		RunE:  runScaffold,
	}
	cmd.Flags().StringVar(&flagScaffoldDir, "scaffold", "", "scaffold directory")
	cmd.Flags().StringVar(&flagInput, "input", "", "input payload")
	cmd.Flags().StringVar(&flagInputFile, "input-file", "", "file holding the input payload")
	cmd.Flags().StringVar(&flagModel, "model", "", "executor model spec")
	cmd.Flags().IntVar(&flagTimeoutSec, "timeout", 0, "override timeout in seconds")
	cmd.Flags().IntVar(&flagThinkingBudget, "thinking-budget", 0, "thinking token budget (0 disables extended reasoning)")
	cmd.Flags().BoolVar(&flagConsole, "console", false, "mirror scaffold output to the console")
	cmd.Flags().StringVar(&flagLogPath, "log", "", "execution log path")
	cmd.MarkFlagRequired("scaffold")
	cmd.MarkFlagRequired("model")
	return cmd
}

func runScaffold(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	input := flagInput
	if flagInputFile != "" {
		data, err := os.ReadFile(flagInputFile)
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}
		input = string(data)
	}

	s, err := scaffold.Load(flagScaffoldDir)
	if err != nil {
		return err
	}

	timeout := cfg.Timeout()
	if flagTimeoutSec > 0 {
		timeout = time.Duration(flagTimeoutSec) * time.Second
	}
	logPath := flagLogPath
	if logPath == "" {
		logPath = filepath.Join(cfg.Ledger.Dir, "logs", s.ID, uuid.NewString()[:8]+".log")
	}

	req := &execute.Request{
		Scaffold:      s,
		Input:         input,
		ModelSpec:     flagModel,
		Timeout:       timeout,
		ConsoleOutput: flagConsole,
		LogPath:       logPath,
	}
	// --thinking-budget 0 is a real request to turn extended reasoning off,
	// distinct from not passing the flag at all.
	if cmd.Flags().Changed("thinking-budget") {
		req.ThinkingBudgetTokens = &flagThinkingBudget
	}

	runner := &execute.Runner{Cfg: cfg}
	result, err := runner.Run(context.Background(), req)
	if err != nil {
		return err
	}

	if !result.OK() {
		fmt.Fprintf(os.Stderr, "scaffold failed after %.1fs: %s\n",
			result.ExecutionTime.Seconds(), result.ErrorMessage)
		fmt.Fprintf(os.Stderr, "log: %s\n", result.LogPath)
		os.Exit(1)
	}
	fmt.Println(result.Output)
	fmt.Fprintf(os.Stderr, "completed in %.1fs (%d model calls), log: %s\n",
		result.ExecutionTime.Seconds(), len(result.ModelCalls), result.LogPath)
	return nil
}
