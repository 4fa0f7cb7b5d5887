package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/halgrim/gauntlet/internal/config"
	"github.com/halgrim/gauntlet/internal/dataset"
	"github.com/halgrim/gauntlet/internal/execute"
	"github.com/halgrim/gauntlet/internal/gateway"
	"github.com/halgrim/gauntlet/internal/ledger"
	"github.com/halgrim/gauntlet/internal/pricing"
	"github.com/halgrim/gauntlet/internal/scaffold"
	"github.com/halgrim/gauntlet/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	flagEvalScaffold string
	flagEvalDataset  string
	flagEvalDomain   string
	flagEvalModel    string
	flagEvalSamples  int
	flagEvalSeed     int64
	flagEvalParallel int
	flagEvalTimeout  int
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a scaffold over a dataset sample and record scores",
		RunE:  runEval,
	}
	cmd.Flags().StringVar(&flagEvalScaffold, "scaffold", "", "scaffold directory")
	cmd.Flags().StringVar(&flagEvalDataset, "dataset", "", "JSONL dataset path")
	cmd.Flags().StringVar(&flagEvalDomain, "domain", "", "scoring domain")
	cmd.Flags().StringVar(&flagEvalModel, "model", "", "executor model spec")
	cmd.Flags().IntVar(&flagEvalSamples, "samples", 0, "number of examples to sample (0 = all)")
	cmd.Flags().Int64Var(&flagEvalSeed, "seed", 42, "sampling seed")
	cmd.Flags().IntVar(&flagEvalParallel, "parallel", 1, "max concurrent sandboxes")
	cmd.Flags().IntVar(&flagEvalTimeout, "timeout", 0, "override timeout in seconds")
	cmd.MarkFlagRequired("scaffold")
	cmd.MarkFlagRequired("dataset")
	cmd.MarkFlagRequired("domain")
	cmd.MarkFlagRequired("model")
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	model, err := cfg.ResolveModel(flagEvalModel)
	if err != nil {
		return err
	}
	scorer, err := scoring.Resolve(flagEvalDomain)
	if err != nil {
		return err
	}

	var priceTable *pricing.Table
	if cfg.Pricing.Table != "" {
		priceTable, err = pricing.Load(cfg.Pricing.Table)
		if err != nil {
			log.Printf("warning: pricing table unavailable, costs not recorded: %v", err)
		}
	}
	s, err := scaffold.Load(flagEvalScaffold)
	if err != nil {
		return err
	}
	examples, err := dataset.Load(flagEvalDataset)
	if err != nil {
		return err
	}
	sample := dataset.Sample(examples, flagEvalSamples, flagEvalSeed)
	if len(sample) == 0 {
		return fmt.Errorf("dataset %s has no examples", flagEvalDataset)
	}

	timeout := cfg.Timeout()
	if flagEvalTimeout > 0 {
		timeout = time.Duration(flagEvalTimeout) * time.Second
	}

	runner := &execute.Runner{Cfg: cfg}
	passID := uuid.NewString()[:8]
	logsDir := filepath.Join(cfg.Ledger.Dir, "logs", s.ID, passID)

	var (
		mu         sync.Mutex
		scores     = make([]float64, len(sample))
		times      = make([]float64, len(sample))
		inputToks  int
		outputToks int
		totalCost  float64
	)

	jobs := make([]execute.Job, 0, len(sample))
	for i, ex := range sample {
		i, ex := i, ex
		jobs = append(jobs, func(ctx context.Context) error {
			result, err := runner.Run(ctx, &execute.Request{
				Scaffold:  s,
				Input:     ex.Input,
				ModelSpec: flagEvalModel,
				Timeout:   timeout,
				LogPath:   filepath.Join(logsDir, fmt.Sprintf("valid_%d.log", i)),
			})
			if err != nil {
				return fmt.Errorf("example %s: %w", ex.ID, err)
			}

			// Failed executions score the domain floor rather than aborting
			// the pass.
			var score float64
			if result.OK() {
				score, err = scorer.Score(ex.ScoringData, scoring.Attempt{Output: result.Output})
				if err != nil {
					log.Printf("warning: scoring example %s: %v", ex.ID, err)
					score = 0
				}
			} else {
				log.Printf("scaffold %s failed on %s: %s", s.ID, ex.ID, result.ErrorMessage)
			}

			in, out := gateway.TotalUsage(result.ModelCalls)
			var cost float64
			if priceTable != nil {
				cost = priceTable.EstimateRunCost(model.Provider, model.ModelID, result.ModelCalls)
			}
			mu.Lock()
			scores[i] = score
			times[i] = result.ExecutionTime.Seconds()
			inputToks += in
			outputToks += out
			totalCost += cost
			mu.Unlock()
			return nil
		})
	}

	errs := execute.RunPool(context.Background(), flagEvalParallel, jobs)
	for _, err := range errs {
		fmt.Printf("  ERROR: %v\n", err)
	}
	if len(errs) == len(sample) {
		return fmt.Errorf("every execution failed during setup")
	}

	led := ledger.New(filepath.Join(cfg.Ledger.Dir, "records"))
	rec := &ledger.Record{
		ScaffoldID:        s.ID,
		Domain:            flagEvalDomain,
		ModelSpec:         flagEvalModel,
		Scores:            scores,
		ExecutionTimesS:   times,
		TotalInputTokens:  inputToks,
		TotalOutputTokens: outputToks,
		TotalCostUSD:      totalCost,
	}
	if err := led.Append(rec); err != nil {
		return err
	}

	fmt.Printf("%s: mean %.3f, std %.3f over %d examples (logs: %s)\n",
		s.ID, rec.MeanScore, rec.StdScore, len(sample), logsDir)
	if totalCost > 0 {
		fmt.Printf("estimated model cost: $%.4f\n", totalCost)
	}
	return nil
}
