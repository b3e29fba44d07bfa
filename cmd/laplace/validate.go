package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/laplace/internal/presentation/graph"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a configuration and print the row decomposition",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		parts, err := domain.Partitions(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Fprint(out, graph.GenerateMermaid(parts, nil))
			return nil
		}

		fmt.Fprintf(out, "Grid %d x %d over %d workers, %d rows each\n\n", cfg.Rows, cfg.Cols, cfg.Workers, cfg.LocalRows())
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tROWS\tUPPER\tLOWER")
		for _, p := range parts {
			fmt.Fprintf(tw, "%d\t%d-%d\t%s\t%s\n", p.Rank, p.FirstRow+1, p.FirstRow+p.LocalRows,
				neighbor(p.Neighbors.Upper, p.Rank-1), neighbor(p.Neighbors.Lower, p.Rank+1))
		}
		return tw.Flush()
	},
}

func neighbor(ok bool, rank int) string {
	if !ok {
		return "-"
	}
	return fmt.Sprint(rank)
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addConfigFlags(validateCmd.Flags())
	validateCmd.Flags().Bool("mermaid", false, "Print the decomposition as a Mermaid flowchart")
}
