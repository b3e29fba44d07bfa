package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/laplace/pkg/collective"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/ports"
)

type mailboxKey struct {
	src, dst, tag int
}

// World is an in-process process group: one mailbox channel per
// (source, destination, tag) triple, shared by goroutine workers.
// Safe for concurrent use.
type World struct {
	size   int
	buffer int

	mu    sync.Mutex
	boxes map[mailboxKey]chan []float64

	abortOnce sync.Once
	aborted   chan struct{}
	cause     error
}

// Option configures a World.
type Option func(*World)

// WithBuffer sets the mailbox capacity. The default of zero makes every Send a
// rendezvous with the matching Receive.
func WithBuffer(n int) Option {
	return func(w *World) {
		w.buffer = n
	}
}

// NewWorld creates a group of size workers.
func NewWorld(size int, opts ...Option) *World {
	w := &World{
		size:    size,
		boxes:   make(map[mailboxKey]chan []float64),
		aborted: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Size returns the number of workers in the world.
func (w *World) Size() int { return w.size }

// Transport returns the point-to-point endpoint of rank.
func (w *World) Transport(rank int) *Transport {
	return &Transport{world: w, rank: rank}
}

// Group returns the full process group endpoint of rank.
func (w *World) Group(rank int) ports.ProcessGroup {
	return collective.New(w.Transport(rank))
}

// Groups returns one endpoint per rank, in rank order.
func (w *World) Groups() []ports.ProcessGroup {
	groups := make([]ports.ProcessGroup, w.size)
	for r := range groups {
		groups[r] = w.Group(r)
	}
	return groups
}

// Err returns the abort cause, or nil while the world is healthy.
func (w *World) Err() error {
	select {
	case <-w.aborted:
		return w.abortErr()
	default:
		return nil
	}
}

func (w *World) mailbox(src, dst, tag int) chan []float64 {
	key := mailboxKey{src: src, dst: dst, tag: tag}

	w.mu.Lock()
	defer w.mu.Unlock()
	box, ok := w.boxes[key]
	if !ok {
		box = make(chan []float64, w.buffer)
		w.boxes[key] = box
	}
	return box
}

func (w *World) abort(cause error) {
	w.abortOnce.Do(func() {
		w.cause = cause
		close(w.aborted)
	})
}

func (w *World) abortErr() error {
	if w.cause == nil {
		return domain.ErrAborted
	}
	return fmt.Errorf("%w: %v", domain.ErrAborted, w.cause)
}

// Transport is one rank's endpoint into a World.
type Transport struct {
	world *World
	rank  int
}

var _ ports.Transport = (*Transport)(nil)

func (t *Transport) Rank() int { return t.rank }

func (t *Transport) Size() int { return t.world.size }

// Send blocks until the mailbox accepts a copy of buf.
func (t *Transport) Send(ctx context.Context, buf []float64, dest, tag int) error {
	if err := t.check(dest); err != nil {
		return err
	}
	box := t.world.mailbox(t.rank, dest, tag)
	msg := slices.Clone(buf)

	select {
	case box <- msg:
		return nil
	case <-t.world.aborted:
		return t.world.abortErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive blocks until a message from source with tag arrives.
func (t *Transport) Receive(ctx context.Context, buf []float64, source, tag int) error {
	if err := t.check(source); err != nil {
		return err
	}
	box := t.world.mailbox(source, t.rank, tag)

	select {
	case msg := <-box:
		if len(msg) != len(buf) {
			return fmt.Errorf("%w: got %d values from %d, want %d", domain.ErrCountMismatch, len(msg), source, len(buf))
		}
		copy(buf, msg)
		return nil
	case <-t.world.aborted:
		return t.world.abortErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Abort fails the whole world. It never blocks.
func (t *Transport) Abort(_ context.Context, cause error) error {
	t.world.abort(cause)
	return nil
}

func (t *Transport) check(peer int) error {
	select {
	case <-t.world.aborted:
		return t.world.abortErr()
	default:
	}
	if peer < 0 || peer >= t.world.size {
		return fmt.Errorf("%w: %d not in [0, %d)", domain.ErrInvalidRank, peer, t.world.size)
	}
	return nil
}
