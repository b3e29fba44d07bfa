package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/laplace/internal/cli"
	"github.com/aretw0/laplace/internal/config"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "laplace",
	Short: "Laplace solves the 2D heat equation with distributed Jacobi iteration",
	Long: `Laplace relaxes a rectangular plate to its steady-state temperature field.
The grid is split by rows across workers that exchange ghost rows every
iteration and agree on the global maximum change to decide when to stop.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
}

// configFlags maps command line flags to configuration keys.
var configFlags = map[string]string{
	"rows":            "rows",
	"cols":            "cols",
	"workers":         "workers",
	"iterations":      "max_iterations",
	"iteration-limit": "iteration_limit",
	"threshold":       "threshold",
	"max-temp":        "max_temp",
	"progress-every":  "progress_every",
	"gather":          "gather",
}

// addConfigFlags registers the solver configuration flags. Defaults shown in
// help come from domain.DefaultConfig; only flags set explicitly override the file.
func addConfigFlags(flags *pflag.FlagSet) {
	d := domain.DefaultConfig()
	flags.String("config", "", "Configuration file (YAML or JSON)")
	flags.Int("rows", d.Rows, "Global interior rows")
	flags.Int("cols", d.Cols, "Global interior columns")
	flags.Int("workers", d.Workers, "Number of workers")
	flags.Int("iterations", d.MaxIterations, "Iteration cap (0 asks on stdin)")
	flags.Int("iteration-limit", d.IterationLimit, "Largest accepted iteration cap")
	flags.Float64("threshold", d.Threshold, "Convergence threshold on the maximum change")
	flags.Float64("max-temp", d.MaxTemp, "Temperature of the bottom-right corner")
	flags.Int("progress-every", d.ProgressEvery, "Log the heated corner every N iterations (0 disables)")
	flags.Bool("gather", d.Gather, "Collect the final field at the coordinator")
}

// loadConfig reads --config and applies the explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (domain.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	overrides := map[string]any{}
	for flag, key := range configFlags {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
	return config.Apply(cfg, overrides)
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return cli.NewLogger(cli.LogOptions{Level: level, Format: format})
}

// runOptions assembles what every run command shares.
func runOptions(cmd *cobra.Command) (cli.RunOptions, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.RunOptions{}, err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return cli.RunOptions{}, err
	}
	pretty, _ := cmd.Flags().GetString("pretty")
	return cli.RunOptions{
		Config: cfg,
		Pretty: cli.PrettyMode(pretty),
		Logger: logger,
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
	}, nil
}
