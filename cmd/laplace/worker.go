package main

import (
	"context"

	"github.com/aretw0/laplace/internal/cli"
	redisAdapter "github.com/aretw0/laplace/pkg/adapters/redis"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run one worker of a multi-process solve over Redis",
	Long: `Runs a single rank of a solve whose workers are separate processes.
Start --workers processes with the same --run id and configuration. Each one
either passes an explicit --rank or claims the next free rank from Redis.
Rank 0 asks for the iteration cap (if not configured) and prints the report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("redis")
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		runID, _ := cmd.Flags().GetString("run")
		rank, _ := cmd.Flags().GetInt("rank")
		poll, _ := cmd.Flags().GetDuration("poll")

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()
		return cli.Worker(sc, cli.WorkerOptions{
			RunOptions:    opts,
			RedisAddr:     addr,
			RedisPassword: password,
			RedisDB:       db,
			RunID:         runID,
			Rank:          rank,
			PollInterval:  poll,
		})
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
	addConfigFlags(workerCmd.Flags())
	workerCmd.Flags().String("pretty", string(cli.PrettyAuto), "Render the report with glamour (auto, always, never)")
	workerCmd.Flags().String("redis", "localhost:6379", "Redis address")
	workerCmd.Flags().String("redis-password", "", "Redis password")
	workerCmd.Flags().Int("redis-db", 0, "Redis database")
	workerCmd.Flags().String("run", "", "Run identifier shared by all workers")
	workerCmd.Flags().Int("rank", -1, "Rank of this worker (-1 claims one)")
	workerCmd.Flags().Duration("poll", redisAdapter.DefaultPollInterval, "Abort check interval while blocked on a receive")
	_ = workerCmd.MarkFlagRequired("run")
}
