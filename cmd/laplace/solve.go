package main

import (
	"context"
	"strings"

	"github.com/aretw0/laplace"
	"github.com/aretw0/laplace/internal/cli"
	"github.com/aretw0/laplace/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run a solve with all workers in this process",
	Long: `Runs every worker as a goroutine over in-process mailboxes.
If no iteration cap is configured, rank 0 asks for one on stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd)
		if err != nil {
			return err
		}
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.ErrOrStderr(), strings.TrimSpace(laplace.Version))
		}

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()
		return cli.Solve(sc, opts)
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	addConfigFlags(solveCmd.Flags())
	solveCmd.Flags().String("pretty", string(cli.PrettyAuto), "Render the report with glamour (auto, always, never)")
	solveCmd.Flags().Bool("banner", false, "Print the banner on stderr")
}
