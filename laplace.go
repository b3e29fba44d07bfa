package laplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/laplace/internal/logging"
	"github.com/aretw0/laplace/internal/runtime"
	"github.com/aretw0/laplace/pkg/adapters/memory"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Config and Report are re-exported so that library users need a single import.
type (
	Config = domain.Config
	Report = domain.Report
)

// DefaultConfig returns the default solver configuration.
func DefaultConfig() Config { return domain.DefaultConfig() }

type options struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	source ports.IterationSource
	buffer int
}

// Option configures Solve and RunWorker.
type Option func(*options)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. In-process runs call them
// from every worker goroutine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithIterationSource sets where the coordinator reads the iteration cap from
// when Config.MaxIterations is zero.
func WithIterationSource(src ports.IterationSource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithMailboxBuffer sets the mailbox capacity of the in-process group used by Solve.
// Zero, the default, makes every message a rendezvous.
func WithMailboxBuffer(n int) Option {
	return func(o *options) {
		o.buffer = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) workerOptions() []runtime.Option {
	wopts := []runtime.Option{
		runtime.WithLogger(o.logger),
		runtime.WithLifecycleHooks(o.hooks),
	}
	if o.source != nil {
		wopts = append(wopts, runtime.WithIterationSource(o.source))
	}
	return wopts
}

// Solve runs cfg.Workers workers as goroutines over an in-process group and
// returns the coordinator's report. The first worker error is returned; a
// failing worker aborts the others.
func Solve(ctx context.Context, cfg Config, opts ...Option) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	world := memory.NewWorld(cfg.Workers, memory.WithBuffer(o.buffer))

	var report *Report
	errs := make([]error, cfg.Workers)
	var eg errgroup.Group
	for rank := 0; rank < cfg.Workers; rank++ {
		w := runtime.NewWorker(world.Group(rank), cfg, o.workerOptions()...)
		eg.Go(func() error {
			r, err := w.Run(ctx)
			if err != nil {
				errs[rank] = fmt.Errorf("worker %d: %w", rank, err)
				return errs[rank]
			}
			if rank == 0 {
				report = r
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, rootCause(errs, err)
	}
	return report, nil
}

// rootCause prefers the error of the worker that aborted the group over the
// ErrAborted seen by its peers.
func rootCause(errs []error, fallback error) error {
	for _, err := range errs {
		if err != nil && !errors.Is(err, domain.ErrAborted) {
			return err
		}
	}
	return fallback
}

// RunWorker runs a single worker over an externally provided process group.
// The group's rank 0 returns the report; every other rank returns nil.
func RunWorker(ctx context.Context, group ports.ProcessGroup, cfg Config, opts ...Option) (*Report, error) {
	o := newOptions(opts)
	return runtime.NewWorker(group, cfg, o.workerOptions()...).Run(ctx)
}
