package cmd

import (
	"fmt"
	"os"

	"github.com/halgrim/gauntlet/internal/dataset"
	"github.com/halgrim/gauntlet/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	flagScoreDomain     string
	flagScoreDataset    string
	flagScoreExampleID  string
	flagScoreOutput     string
	flagScoreOutputFile string
	flagScoreShowSource bool
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a produced output against a dataset example",
		RunE:  runScore,
	}
	cmd.Flags().StringVar(&flagScoreDomain, "domain", "", "scoring domain")
	cmd.Flags().StringVar(&flagScoreDataset, "dataset", "", "JSONL dataset path")
	cmd.Flags().StringVar(&flagScoreExampleID, "id", "", "example ID")
	cmd.Flags().StringVar(&flagScoreOutput, "output", "", "produced output text")
	cmd.Flags().StringVar(&flagScoreOutputFile, "output-file", "", "file holding the produced output")
	cmd.Flags().BoolVar(&flagScoreShowSource, "show-source", false, "print the scorer's own source and exit")
	cmd.MarkFlagRequired("domain")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	if flagScoreShowSource {
		src, err := scoring.SourceOf(flagScoreDomain)
		if err != nil {
			return err
		}
		fmt.Print(src)
		return nil
	}

	scorer, err := scoring.Resolve(flagScoreDomain)
	if err != nil {
		return err
	}
	if flagScoreDataset == "" || flagScoreExampleID == "" {
		return fmt.Errorf("--dataset and --id are required to score")
	}

	examples, err := dataset.Load(flagScoreDataset)
	if err != nil {
		return err
	}
	ex, err := dataset.Find(examples, flagScoreExampleID)
	if err != nil {
		return err
	}

	output := flagScoreOutput
	if flagScoreOutputFile != "" {
		data, err := os.ReadFile(flagScoreOutputFile)
		if err != nil {
			return fmt.Errorf("reading output file: %w", err)
		}
		output = string(data)
	}

	score, err := scorer.Score(ex.ScoringData, scoring.Attempt{Output: output})
	if err != nil {
		return err
	}
	fmt.Printf("%.3f\n", score)
	return nil
}
