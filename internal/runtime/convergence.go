package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/laplace/pkg/ports"
)

// agree reduces every worker's local delta to its maximum at the coordinator
// and broadcasts the result, so all workers decide on the same value.
func agree(ctx context.Context, group ports.ProcessGroup, local float64) (float64, error) {
	global, err := group.Reduce(ctx, local, ports.OpMax, coordinator)
	if err != nil {
		return 0, fmt.Errorf("reduce delta: %w", err)
	}
	buf := []float64{global}
	if err := group.Broadcast(ctx, buf, coordinator); err != nil {
		return 0, fmt.Errorf("broadcast delta: %w", err)
	}
	return buf[0], nil
}
