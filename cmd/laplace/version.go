package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/laplace"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of laplace",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "laplace version %s\n", strings.TrimSpace(laplace.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
