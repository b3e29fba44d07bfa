package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/laplace/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// GroupFactory builds a fresh group of size workers, one ProcessGroup per rank in rank order.
type GroupFactory func(t *testing.T, size int) []ProcessGroup

// ContractTimeout bounds every contract scenario. A scenario still blocked after it is a deadlock.
var ContractTimeout = 10 * time.Second

// RunProcessGroupContract runs a suite of tests to verify that a ProcessGroup implementation
// adheres to the defined interface contract.
func RunProcessGroupContract(t *testing.T, newGroup GroupFactory) {
	t.Run("Identity", func(t *testing.T) {
		groups := newGroup(t, 3)
		require.Len(t, groups, 3)
		for i, g := range groups {
			assert.Equal(t, i, g.Rank())
			assert.Equal(t, 3, g.Size())
		}
	})

	t.Run("Send and Receive", func(t *testing.T) {
		groups := newGroup(t, 2)
		RunAll(t, groups, func(ctx context.Context, g ProcessGroup) error {
			if g.Rank() == 0 {
				buf := []float64{1, 2.5, -3}
				if err := g.Send(ctx, buf, 1, 7); err != nil {
					return err
				}
				// The transport owns a copy once Send returned.
				buf[0] = 99
				return nil
			}
			got := make([]float64, 3)
			if err := g.Receive(ctx, got, 0, 7); err != nil {
				return err
			}
			assert.Equal(t, []float64{1, 2.5, -3}, got)
			return nil
		})
	})

	t.Run("Tags Are Isolated", func(t *testing.T) {
		groups := newGroup(t, 2)
		RunAll(t, groups, func(ctx context.Context, g ProcessGroup) error {
			if g.Rank() == 0 {
				eg, ctx := errgroup.WithContext(ctx)
				eg.Go(func() error { return g.Send(ctx, []float64{1}, 1, 1) })
				eg.Go(func() error { return g.Send(ctx, []float64{2}, 1, 2) })
				return eg.Wait()
			}
			two := make([]float64, 1)
			one := make([]float64, 1)
			if err := g.Receive(ctx, two, 0, 2); err != nil {
				return err
			}
			if err := g.Receive(ctx, one, 0, 1); err != nil {
				return err
			}
			assert.Equal(t, 2.0, two[0])
			assert.Equal(t, 1.0, one[0])
			return nil
		})
	})

	t.Run("Ordered Delivery", func(t *testing.T) {
		groups := newGroup(t, 2)
		RunAll(t, groups, func(ctx context.Context, g ProcessGroup) error {
			const n = 5
			if g.Rank() == 0 {
				for i := 0; i < n; i++ {
					if err := g.Send(ctx, []float64{float64(i)}, 1, 3); err != nil {
						return err
					}
				}
				return nil
			}
			buf := make([]float64, 1)
			for i := 0; i < n; i++ {
				if err := g.Receive(ctx, buf, 0, 3); err != nil {
					return err
				}
				assert.Equal(t, float64(i), buf[0])
			}
			return nil
		})
	})

	t.Run("Count Mismatch", func(t *testing.T) {
		groups := newGroup(t, 2)
		errs := runEach(t, groups, func(ctx context.Context, g ProcessGroup) error {
			if g.Rank() == 0 {
				return g.Send(ctx, []float64{1, 2, 3}, 1, 4)
			}
			return g.Receive(ctx, make([]float64, 2), 0, 4)
		})
		assert.NoError(t, errs[0])
		assert.ErrorIs(t, errs[1], domain.ErrCountMismatch)
	})

	t.Run("Reserved Tag", func(t *testing.T) {
		groups := newGroup(t, 2)
		ctx := context.Background()
		assert.ErrorIs(t, groups[0].Send(ctx, []float64{1}, 1, -1), domain.ErrReservedTag)
		assert.ErrorIs(t, groups[1].Receive(ctx, make([]float64, 1), 0, -2), domain.ErrReservedTag)
	})

	t.Run("Invalid Rank", func(t *testing.T) {
		groups := newGroup(t, 2)
		ctx := context.Background()
		assert.ErrorIs(t, groups[0].Send(ctx, []float64{1}, 2, 0), domain.ErrInvalidRank)
		assert.ErrorIs(t, groups[0].Receive(ctx, make([]float64, 1), -1, 0), domain.ErrInvalidRank)
		assert.ErrorIs(t, groups[0].Broadcast(ctx, []float64{1}, 5), domain.ErrInvalidRank)
	})

	t.Run("Broadcast", func(t *testing.T) {
		groups := newGroup(t, 4)
		RunAll(t, groups, func(ctx context.Context, g ProcessGroup) error {
			buf := []float64{0, 0}
			if g.Rank() == 1 {
				buf = []float64{3.5, -1}
			}
			if err := g.Broadcast(ctx, buf, 1); err != nil {
				return err
			}
			assert.Equal(t, []float64{3.5, -1}, buf, "rank %d", g.Rank())
			return nil
		})
	})

	t.Run("Reduce", func(t *testing.T) {
		for _, tc := range []struct {
			op   ReduceOp
			want float64
		}{
			{OpMax, 5},
			{OpMin, 1},
			{OpSum, 15},
		} {
			t.Run(tc.op.String(), func(t *testing.T) {
				groups := newGroup(t, 5)
				RunAll(t, groups, func(ctx context.Context, g ProcessGroup) error {
					got, err := g.Reduce(ctx, float64(g.Rank()+1), tc.op, 0)
					if err != nil {
						return err
					}
					if g.Rank() == 0 {
						assert.Equal(t, tc.want, got)
					}
					return nil
				})
			})
		}
	})

	t.Run("Barrier", func(t *testing.T) {
		groups := newGroup(t, 3)
		RunAll(t, groups, func(ctx context.Context, g ProcessGroup) error {
			for i := 0; i < 3; i++ {
				if err := g.Barrier(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	})

	t.Run("Single Worker Collectives", func(t *testing.T) {
		groups := newGroup(t, 1)
		ctx := context.Background()
		buf := []float64{42}
		require.NoError(t, groups[0].Broadcast(ctx, buf, 0))
		assert.Equal(t, 42.0, buf[0])
		got, err := groups[0].Reduce(ctx, 7, OpMax, 0)
		require.NoError(t, err)
		assert.Equal(t, 7.0, got)
		assert.NoError(t, groups[0].Barrier(ctx))
	})

	t.Run("Abort Releases Blocked Receivers", func(t *testing.T) {
		groups := newGroup(t, 3)
		cause := errors.New("boom")
		errs := runEach(t, groups, func(ctx context.Context, g ProcessGroup) error {
			if g.Rank() == 0 {
				return g.Abort(ctx, cause)
			}
			return g.Receive(ctx, make([]float64, 1), 0, 9)
		})
		assert.NoError(t, errs[0])
		assert.ErrorIs(t, errs[1], domain.ErrAborted)
		assert.ErrorIs(t, errs[2], domain.ErrAborted)

		err := groups[1].Send(context.Background(), []float64{1}, 2, 0)
		assert.ErrorIs(t, err, domain.ErrAborted)
	})
}

// RunAll runs fn once per rank concurrently and fails the test on the first error or on timeout.
func RunAll(t *testing.T, groups []ProcessGroup, fn func(ctx context.Context, g ProcessGroup) error) {
	t.Helper()
	for rank, err := range runEach(t, groups, fn) {
		require.NoError(t, err, "rank %d", rank)
	}
}

// runEach runs fn once per rank concurrently and returns every rank's error.
func runEach(t *testing.T, groups []ProcessGroup, fn func(ctx context.Context, g ProcessGroup) error) []error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), ContractTimeout)
	defer cancel()

	errs := make([]error, len(groups))
	done := make(chan struct{})
	var eg errgroup.Group
	for i, g := range groups {
		eg.Go(func() error {
			errs[i] = fn(ctx, g)
			return nil
		})
	}
	go func() {
		_ = eg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		<-done
		t.Fatalf("process group scenario did not finish within %s", ContractTimeout)
	}
	return errs
}
