package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/laplace/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// RankClaimTTL is how long a run's rank counter survives after the last claim.
const RankClaimTTL = time.Hour

// ClaimRank hands out ranks 0..size-1 to workers that join a run without one.
// Ranks follow the order in which workers reach Redis. An empty prefix means DefaultPrefix.
func ClaimRank(ctx context.Context, client *backend.Client, prefix, runID string, size int) (int, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	key := prefix + runID + ":ranks"

	pipe := client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, RankClaimTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis rank claim: %w", err)
	}

	rank := int(incr.Val()) - 1
	if rank >= size {
		return 0, fmt.Errorf("%w: run %q already has %d workers", domain.ErrWorkerCountMismatch, runID, size)
	}
	return rank, nil
}
