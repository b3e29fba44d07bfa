package observability

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/laplace/pkg/domain"
)

// WorkerStatus is the latest known state of one worker.
type WorkerStatus struct {
	Rank        int          `json:"rank"`
	Phase       domain.Phase `json:"phase"`
	Iteration   int          `json:"iteration"`
	LocalDelta  float64      `json:"local_delta"`
	GlobalDelta float64      `json:"global_delta"`
	Error       string       `json:"error,omitempty"`
}

// Snapshot is a point-in-time view of a run.
type Snapshot struct {
	Started time.Time      `json:"started,omitzero"`
	Workers []WorkerStatus `json:"workers"`
	Report  *domain.Report `json:"report,omitempty"`
}

// Monitor tracks worker progress from lifecycle hooks. Safe for concurrent use.
type Monitor struct {
	mu      sync.Mutex
	started time.Time
	workers map[int]WorkerStatus
	report  *domain.Report
}

// NewMonitor creates an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{workers: make(map[int]WorkerStatus)}
}

// Hooks returns lifecycle hooks feeding m.
func (m *Monitor) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPhase: func(_ context.Context, e *domain.PhaseEvent) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if e.From == domain.PhaseInit && m.started.IsZero() {
				m.started = e.Timestamp
			}
			s := m.workers[e.Rank]
			s.Rank = e.Rank
			s.Phase = e.To
			if e.Err != nil {
				s.Error = e.Err.Error()
			}
			m.workers[e.Rank] = s
		},
		OnIteration: func(_ context.Context, e *domain.IterationEvent) {
			m.mu.Lock()
			defer m.mu.Unlock()
			s := m.workers[e.Rank]
			s.Rank = e.Rank
			s.Iteration = e.Iteration
			s.LocalDelta = e.LocalDelta
			s.GlobalDelta = e.GlobalDelta
			m.workers[e.Rank] = s
		},
		OnReport: func(_ context.Context, r *domain.Report) {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.report = r
		},
	}
}

// Snapshot returns a copy of the current state with workers in rank order.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{Started: m.started, Report: m.report}
	snap.Workers = slices.SortedFunc(maps.Values(m.workers), func(a, b WorkerStatus) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	return snap
}

// Done reports whether a run report has been recorded.
func (m *Monitor) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.report != nil
}
