package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/laplace/pkg/domain"
)

// Combine returns hooks that call every non-nil callback of hooks in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhase: func(ctx context.Context, e *domain.PhaseEvent) {
			for _, h := range hooks {
				if h.OnPhase != nil {
					h.OnPhase(ctx, e)
				}
			}
		},
		OnIteration: func(ctx context.Context, e *domain.IterationEvent) {
			for _, h := range hooks {
				if h.OnIteration != nil {
					h.OnIteration(ctx, e)
				}
			}
		},
		OnReport: func(ctx context.Context, r *domain.Report) {
			for _, h := range hooks {
				if h.OnReport != nil {
					h.OnReport(ctx, r)
				}
			}
		},
	}
}

// LogHooks logs phase changes at info level and iterations at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhase: func(ctx context.Context, e *domain.PhaseEvent) {
			attrs := []any{"rank", e.Rank, "from", e.From, "to", e.To}
			if e.Err != nil {
				attrs = append(attrs, "error", e.Err)
			}
			logger.InfoContext(ctx, "phase", attrs...)
		},
		OnIteration: func(ctx context.Context, e *domain.IterationEvent) {
			logger.DebugContext(ctx, "iteration",
				"rank", e.Rank,
				"iteration", e.Iteration,
				"local_delta", e.LocalDelta,
				"global_delta", e.GlobalDelta,
			)
		},
	}
}
