package cmd

import (
	"os"
	"path/filepath"

	"github.com/halgrim/gauntlet/internal/config"
	"github.com/halgrim/gauntlet/internal/ledger"
	"github.com/halgrim/gauntlet/internal/report"
	"github.com/spf13/cobra"
)

var flagReportFormat string

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize recorded evaluation passes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			led := ledger.New(filepath.Join(cfg.Ledger.Dir, "records"))
			return report.Generate(led, flagReportFormat, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&flagReportFormat, "format", "table", "output format: table, markdown, json")
	return cmd
}
