package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/laplace/internal/logging"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/grid"
	"github.com/aretw0/laplace/pkg/ports"
)

// coordinator is the rank that collects the delta, distributes the iteration cap and reports.
const coordinator = 0

// abortTimeout bounds the group abort issued after a fatal error.
const abortTimeout = 5 * time.Second

// Worker runs the solver for one rank of a process group.
type Worker struct {
	group  ports.ProcessGroup
	cfg    domain.Config
	source ports.IterationSource
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time

	part  domain.Partition
	store *grid.Store
	phase domain.Phase
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the structured logger. The worker adds a "rank" attribute.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Worker) {
		w.hooks = hooks
	}
}

// WithIterationSource sets where the coordinator reads the iteration cap from
// when the configuration does not carry one.
func WithIterationSource(src ports.IterationSource) Option {
	return func(w *Worker) {
		w.source = src
	}
}

// WithClock replaces time.Now for elapsed time measurement.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

// NewWorker creates the worker for group's rank. Configuration is validated by Run,
// so that a rejected configuration also aborts the rest of the group.
func NewWorker(group ports.ProcessGroup, cfg domain.Config, opts ...Option) *Worker {
	w := &Worker{
		group: group,
		cfg:   cfg,
		now:   time.Now,
		phase: domain.PhaseInit,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.NewNop()
	}
	w.logger = w.logger.With("rank", group.Rank())
	return w
}

// Phase returns the current phase of the driver loop.
func (w *Worker) Phase() domain.Phase { return w.phase }

// Store returns the worker's grid store. It is nil until Run has initialised it.
func (w *Worker) Store() *grid.Store { return w.store }

// Run executes the driver loop to completion. Only the coordinator returns a
// report; every other rank returns nil on success.
func (w *Worker) Run(ctx context.Context) (report *domain.Report, err error) {
	defer func() {
		if err != nil {
			w.fail(ctx, err)
		}
	}()

	maxIterations, start, err := w.startup(ctx)
	if err != nil {
		return nil, err
	}
	w.transition(ctx, domain.PhaseIterating, nil)

	iteration := 1
	global := math.MaxFloat64
	for !stop(global, w.cfg.Threshold, iteration, maxIterations) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		sweepStart := w.now()
		grid.Sweep(w.store)
		local := grid.Promote(w.store)

		haloStart := w.now()
		if err := w.exchangeHalo(ctx); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		haloEnd := w.now()

		global, err = agree(ctx, w.group, local)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iteration, err)
		}

		if w.hooks.OnIteration != nil {
			w.hooks.OnIteration(ctx, &domain.IterationEvent{
				Rank:        w.part.Rank,
				Iteration:   iteration,
				LocalDelta:  local,
				GlobalDelta: global,
				Sweep:       haloStart.Sub(sweepStart),
				Halo:        haloEnd.Sub(haloStart),
			})
		}
		w.trackProgress(iteration)
		iteration++
	}

	outcome := domain.PhaseExhausted
	if global <= w.cfg.Threshold {
		outcome = domain.PhaseConverged
	}

	if err := w.group.Barrier(ctx); err != nil {
		return nil, fmt.Errorf("final barrier: %w", err)
	}
	elapsed := w.now().Sub(start)

	var field [][]float64
	if w.cfg.Gather {
		field, err = w.gather(ctx)
		if err != nil {
			return nil, err
		}
	}
	w.transition(ctx, outcome, nil)

	if !w.part.Coordinator() {
		return nil, nil
	}

	report = &domain.Report{
		Outcome:     outcome,
		Iterations:  iteration - 1,
		GlobalDelta: global,
		Elapsed:     elapsed,
		Rows:        w.cfg.Rows,
		Cols:        w.cfg.Cols,
		Workers:     w.part.Size,
		Field:       field,
	}
	w.logger.Info("run finished",
		"outcome", outcome,
		"iterations", report.Iterations,
		"global_delta", report.GlobalDelta,
		"elapsed", report.Elapsed,
	)
	if w.hooks.OnReport != nil {
		w.hooks.OnReport(ctx, report)
	}
	return report, nil
}

// startup validates the configuration against the group, initialises the grid
// and agrees on the iteration cap. start is only meaningful on the coordinator.
func (w *Worker) startup(ctx context.Context) (maxIterations int, start time.Time, err error) {
	part, err := domain.NewPartition(w.cfg, w.group.Rank(), w.group.Size())
	if err != nil {
		return 0, start, err
	}
	w.part = part
	w.store = grid.NewStore(part.LocalRows, w.cfg.Cols)
	grid.Initialize(w.store, part, w.cfg.Rows, w.cfg.MaxTemp)
	w.logger.Debug("grid initialized",
		"first_row", part.FirstRow,
		"local_rows", part.LocalRows,
		"cols", w.cfg.Cols,
	)

	buf := []float64{0}
	if part.Coordinator() {
		n, err := w.readIterations(ctx)
		if err != nil {
			return 0, start, err
		}
		start = w.now()
		buf[0] = float64(n)
	}
	if err := w.group.Broadcast(ctx, buf, coordinator); err != nil {
		return 0, start, fmt.Errorf("broadcast iteration cap: %w", err)
	}
	maxIterations = int(buf[0])
	w.logger.Debug("iteration cap agreed", "max_iterations", maxIterations)
	return maxIterations, start, nil
}

func (w *Worker) readIterations(ctx context.Context) (int, error) {
	n := w.cfg.MaxIterations
	if n == 0 {
		if w.source == nil {
			return 0, fmt.Errorf("%w: no iteration cap configured", domain.ErrInvalidIterations)
		}
		var err error
		n, err = w.source.MaxIterations(ctx)
		if err != nil {
			return 0, fmt.Errorf("read iteration cap: %w", err)
		}
	}
	if err := w.cfg.CheckIterations(n); err != nil {
		return 0, err
	}
	return n, nil
}

// stop is the predicate every worker evaluates on the broadcast delta.
// iteration is the number of the next sweep.
func stop(global, threshold float64, iteration, maxIterations int) bool {
	return global <= threshold || iteration > maxIterations
}

func (w *Worker) transition(ctx context.Context, to domain.Phase, cause error) {
	from := w.phase
	w.phase = to
	w.logger.Debug("phase change", "from", from, "to", to)
	if w.hooks.OnPhase != nil {
		w.hooks.OnPhase(ctx, &domain.PhaseEvent{
			Timestamp: w.now(),
			Rank:      w.group.Rank(),
			From:      from,
			To:        to,
			Err:       cause,
		})
	}
}

// fail moves the worker to PhaseFailed and aborts the group so that no peer
// stays blocked on a message this worker will never send.
func (w *Worker) fail(ctx context.Context, err error) {
	w.logger.Error("run failed", "phase", w.phase, "error", err)
	w.transition(ctx, domain.PhaseFailed, err)
	if errors.Is(err, domain.ErrAborted) {
		return
	}

	abortCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), abortTimeout)
	defer cancel()
	if abortErr := w.group.Abort(abortCtx, err); abortErr != nil {
		w.logger.Warn("group abort failed", "error", abortErr)
	}
}
