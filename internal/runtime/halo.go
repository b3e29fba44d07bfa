package runtime

import (
	"context"
	"fmt"
)

// Message tags of the halo exchange.
const (
	TagDown = 100
	TagUp   = 101
)

// exchangeHalo moves the edge rows of Current into the neighbours' ghost rows of Previous.
//
// The downward pass is a chain starting at rank 0: each worker first receives
// from its upper neighbour, then forwards its own last row. The upward pass is
// the same chain starting at the last rank. Neither pass can wait in a cycle.
func (w *Worker) exchangeHalo(ctx context.Context) error {
	rank := w.part.Rank
	nb := w.part.Neighbors

	if nb.Upper {
		if err := w.group.Receive(ctx, w.store.UpperGhost(), rank-1, TagDown); err != nil {
			return fmt.Errorf("halo receive from %d: %w", rank-1, err)
		}
	}
	if nb.Lower {
		if err := w.group.Send(ctx, w.store.BottomRow(), rank+1, TagDown); err != nil {
			return fmt.Errorf("halo send to %d: %w", rank+1, err)
		}
	}

	if nb.Lower {
		if err := w.group.Receive(ctx, w.store.LowerGhost(), rank+1, TagUp); err != nil {
			return fmt.Errorf("halo receive from %d: %w", rank+1, err)
		}
	}
	if nb.Upper {
		if err := w.group.Send(ctx, w.store.TopRow(), rank-1, TagUp); err != nil {
			return fmt.Errorf("halo send to %d: %w", rank-1, err)
		}
	}
	return nil
}
