package domain

import (
	"context"
	"time"
)

// PhaseEvent is emitted when a worker's driver loop changes phase.
type PhaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Rank      int       `json:"rank"`
	From      Phase     `json:"from"`
	To        Phase     `json:"to"`
	Err       error     `json:"-"`
}

// IterationEvent is emitted by every worker after the convergence check of an iteration.
type IterationEvent struct {
	Rank        int           `json:"rank"`
	Iteration   int           `json:"iteration"`
	LocalDelta  float64       `json:"local_delta"`
	GlobalDelta float64       `json:"global_delta"`
	Sweep       time.Duration `json:"sweep"`
	Halo        time.Duration `json:"halo"`
}

// LifecycleHooks defines callbacks for solver observability.
// In-process runs call them concurrently from every worker goroutine.
type LifecycleHooks struct {
	OnPhase     func(context.Context, *PhaseEvent)
	OnIteration func(context.Context, *IterationEvent)
	OnReport    func(context.Context, *Report)
}
