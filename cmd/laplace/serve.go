package main

import (
	"context"
	"fmt"

	"github.com/aretw0/laplace/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a solve and serve its status and metrics over HTTP",
	Long: `Runs an in-process solve while serving /healthz, /status, /events and /metrics.
The server keeps running after the solve finished until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")
		once, _ := cmd.Flags().GetBool("once")

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()
		err = cli.Serve(sc, cli.ServeOptions{
			RunOptions: opts,
			Addr:       ":" + port,
			Linger:     !once,
		})
		if sig := sc.Signal(); sig != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nStopped by signal: %v\n", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addConfigFlags(serveCmd.Flags())
	serveCmd.Flags().String("pretty", string(cli.PrettyNever), "Render the report with glamour (auto, always, never)")
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("once", false, "Stop serving as soon as the solve finished")
}
