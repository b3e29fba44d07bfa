package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/laplace/pkg/domain"
)

// StreamManager fans solver events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Broadcast sends msg to every subscriber without blocking.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// Hooks publishes the coordinator's iterations, every phase change and the report.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	publish := func(kind string, payload any) {
		b, err := json.Marshal(map[string]any{"type": kind, "data": payload})
		if err != nil {
			return
		}
		sm.Broadcast(string(b))
	}
	return domain.LifecycleHooks{
		OnPhase: func(_ context.Context, e *domain.PhaseEvent) {
			publish("phase", e)
		},
		OnIteration: func(_ context.Context, e *domain.IterationEvent) {
			if e.Rank == 0 {
				publish("iteration", e)
			}
		},
		OnReport: func(_ context.Context, r *domain.Report) {
			publish("report", r)
		},
	}
}
