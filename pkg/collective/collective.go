// Package collective builds broadcast, reduction and barrier on top of a
// point-to-point ports.Transport, turning it into a ports.ProcessGroup.
//
// Every collective is linear and rooted: the root talks to the other ranks in
// ascending rank order, so a reduction always combines values in the same order
// and yields bit-identical results between runs.
package collective

import (
	"context"
	"fmt"

	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/ports"
)

// Reserved tags. User messages must use tags >= 0.
const (
	TagBroadcast = -1
	TagReduce    = -2
	TagBarrier   = -3
)

// Group implements ports.ProcessGroup over a Transport.
type Group struct {
	transport ports.Transport
}

var _ ports.ProcessGroup = (*Group)(nil)

// New wraps a point-to-point transport.
func New(t ports.Transport) *Group {
	return &Group{transport: t}
}

func (g *Group) Rank() int { return g.transport.Rank() }

func (g *Group) Size() int { return g.transport.Size() }

// Send forwards a user message. Negative tags are rejected.
func (g *Group) Send(ctx context.Context, buf []float64, dest, tag int) error {
	if err := g.checkPeer(dest, tag); err != nil {
		return err
	}
	return g.transport.Send(ctx, buf, dest, tag)
}

// Receive waits for a user message. Negative tags are rejected.
func (g *Group) Receive(ctx context.Context, buf []float64, source, tag int) error {
	if err := g.checkPeer(source, tag); err != nil {
		return err
	}
	return g.transport.Receive(ctx, buf, source, tag)
}

func (g *Group) Abort(ctx context.Context, cause error) error {
	return g.transport.Abort(ctx, cause)
}

// Broadcast sends buf from root to every other rank.
func (g *Group) Broadcast(ctx context.Context, buf []float64, root int) error {
	return g.broadcast(ctx, buf, root, TagBroadcast)
}

// Reduce combines value across the group at root, in ascending rank order.
func (g *Group) Reduce(ctx context.Context, value float64, op ports.ReduceOp, root int) (float64, error) {
	return g.reduce(ctx, value, op, root, TagReduce)
}

// Barrier gathers a token at rank 0 and releases everyone with a broadcast.
func (g *Group) Barrier(ctx context.Context) error {
	if _, err := g.reduce(ctx, 0, ports.OpMax, 0, TagBarrier); err != nil {
		return fmt.Errorf("barrier gather: %w", err)
	}
	if err := g.broadcast(ctx, []float64{0}, 0, TagBarrier); err != nil {
		return fmt.Errorf("barrier release: %w", err)
	}
	return nil
}

func (g *Group) broadcast(ctx context.Context, buf []float64, root, tag int) error {
	if err := g.checkRank(root); err != nil {
		return err
	}
	if g.Rank() != root {
		return g.transport.Receive(ctx, buf, root, tag)
	}
	for r := 0; r < g.Size(); r++ {
		if r == root {
			continue
		}
		if err := g.transport.Send(ctx, buf, r, tag); err != nil {
			return fmt.Errorf("broadcast to %d: %w", r, err)
		}
	}
	return nil
}

func (g *Group) reduce(ctx context.Context, value float64, op ports.ReduceOp, root, tag int) (float64, error) {
	if err := g.checkRank(root); err != nil {
		return 0, err
	}
	if !op.Valid() {
		return 0, fmt.Errorf("%w: %d", domain.ErrUnknownReduceOp, int(op))
	}
	if g.Rank() != root {
		if err := g.transport.Send(ctx, []float64{value}, root, tag); err != nil {
			return 0, err
		}
		return value, nil
	}

	var acc float64
	buf := make([]float64, 1)
	for r := 0; r < g.Size(); r++ {
		x := value
		if r != root {
			if err := g.transport.Receive(ctx, buf, r, tag); err != nil {
				return 0, fmt.Errorf("reduce from %d: %w", r, err)
			}
			x = buf[0]
		}
		if r == 0 {
			acc = x
			continue
		}
		acc = op.Apply(acc, x)
	}
	return acc, nil
}

func (g *Group) checkPeer(rank, tag int) error {
	if tag < 0 {
		return fmt.Errorf("%w: %d", domain.ErrReservedTag, tag)
	}
	return g.checkRank(rank)
}

func (g *Group) checkRank(rank int) error {
	if rank < 0 || rank >= g.Size() {
		return fmt.Errorf("%w: %d not in [0, %d)", domain.ErrInvalidRank, rank, g.Size())
	}
	return nil
}
