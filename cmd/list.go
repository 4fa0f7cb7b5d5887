package cmd

import (
	"fmt"

	"github.com/halgrim/gauntlet/internal/scaffold"
	"github.com/halgrim/gauntlet/internal/scoring"
	"github.com/spf13/cobra"
)

var flagListScaffolds string

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scoring domains and stored scaffolds",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Scoring domains:")
			for _, d := range scoring.Domains() {
				fmt.Printf("  %s\n", d)
			}
			ids, err := scaffold.List(flagListScaffolds)
			if err != nil {
				return err
			}
			fmt.Printf("\nScaffolds in %s:\n", flagListScaffolds)
			if len(ids) == 0 {
				fmt.Println("  (none)")
			}
			for _, id := range ids {
				fmt.Printf("  %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flagListScaffolds, "scaffolds", "scaffolds", "scaffolds directory")
	return cmd
}
