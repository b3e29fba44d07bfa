package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/laplace"
	httpAdapter "github.com/aretw0/laplace/pkg/adapters/http"
	redisAdapter "github.com/aretw0/laplace/pkg/adapters/redis"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// RunOptions holds what every run command shares.
type RunOptions struct {
	Config domain.Config
	Pretty PrettyMode
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
	// Err receives notices that are not part of the report.
	Err    io.Writer
	Hooks  domain.LifecycleHooks
}

func (o RunOptions) solveOptions() []laplace.Option {
	return []laplace.Option{
		laplace.WithLogger(o.Logger),
		laplace.WithLifecycleHooks(observability.Combine(observability.LogHooks(o.Logger), o.Hooks)),
		laplace.WithIterationSource(&Prompt{In: o.In, Out: o.Out, Limit: o.limit()}),
	}
}

func (o RunOptions) limit() int {
	if o.Config.IterationLimit > 0 {
		return o.Config.IterationLimit
	}
	return domain.DefaultIterationLimit
}

// Solve runs an in-process solve and prints the report.
func Solve(ctx context.Context, opts RunOptions) error {
	report, err := laplace.Solve(ctx, opts.Config, opts.solveOptions()...)
	if err != nil {
		return handleExecutionError(opts.Err, err)
	}
	return printReport(opts.Out, report, opts.Pretty)
}

// WorkerOptions configures one SPMD process of a Redis-backed run.
type WorkerOptions struct {
	RunOptions

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RunID         string
	// Rank is this process's rank. A negative rank is claimed from Redis.
	Rank         int
	PollInterval time.Duration
}

// Worker runs a single worker over Redis. Only rank 0 prints the report.
func Worker(ctx context.Context, opts WorkerOptions) error {
	if opts.RunID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidConfig)
	}
	if err := opts.Config.Validate(); err != nil {
		return err
	}

	client := redisAdapter.Dial(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	defer client.Close()

	var err error
	rank := opts.Rank
	if rank < 0 {
		rank, err = redisAdapter.ClaimRank(ctx, client, redisAdapter.DefaultPrefix, opts.RunID, opts.Config.Workers)
		if err != nil {
			return err
		}
		opts.Logger.Info("rank claimed", "run", opts.RunID, "rank", rank)
	}

	var transportOpts []redisAdapter.Option
	if opts.PollInterval > 0 {
		transportOpts = append(transportOpts, redisAdapter.WithPollInterval(opts.PollInterval))
	}
	group, err := redisAdapter.NewGroup(client, opts.RunID, rank, opts.Config.Workers, transportOpts...)
	if err != nil {
		return err
	}

	report, err := laplace.RunWorker(ctx, group, opts.Config, opts.solveOptions()...)
	if err != nil {
		return handleExecutionError(opts.Err, err)
	}
	if report == nil {
		return nil
	}
	return printReport(opts.Out, report, opts.Pretty)
}

// ServeOptions configures a monitored in-process solve.
type ServeOptions struct {
	RunOptions

	Addr string
	// Linger keeps the monitor up after the run finished until ctx is done.
	Linger bool
}

// Serve runs a solve while serving the monitor endpoints on Addr.
func Serve(ctx context.Context, opts ServeOptions) error {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	monitor := observability.NewMonitor()
	streams := httpAdapter.NewStreamManager()

	handler := httpAdapter.NewHandler(&httpAdapter.Server{
		Status:   monitor,
		Gatherer: reg,
		Streams:  streams,
		Logger:   opts.Logger,
	})
	srv := &http.Server{Addr: opts.Addr, Handler: handler}

	serverErrors := make(chan error, 1)
	go func() {
		opts.Logger.Info("monitor listening", "address", opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			opts.Logger.Warn("monitor shutdown failed", "error", err)
		}
	}()

	opts.Hooks = observability.Combine(opts.Hooks, metrics.Hooks(), monitor.Hooks(), streams.Hooks())
	if err := Solve(ctx, opts.RunOptions); err != nil {
		return err
	}

	if !opts.Linger {
		return nil
	}
	opts.Logger.Info("run finished, monitor still serving; interrupt to exit")
	select {
	case <-ctx.Done():
		return nil
	case err, ok := <-serverErrors:
		if ok {
			return err
		}
		return nil
	}
}
