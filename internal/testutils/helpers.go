// Package testutils holds test harnesses shared by several packages.
package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/laplace/internal/runtime"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// RunTimeout bounds RunWorkers. A run still going after it counts as a deadlock.
var RunTimeout = 20 * time.Second

// SetupRedis starts a miniredis server and a client for it, both closed when the test ends.
func SetupRedis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// RunWorkers runs one worker per group concurrently and returns the
// coordinator's report along with every rank's error. It fails the test if
// the workers do not finish within RunTimeout.
func RunWorkers(t *testing.T, groups []ports.ProcessGroup, cfg domain.Config, opts ...runtime.Option) (*domain.Report, []error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), RunTimeout)
	defer cancel()

	errs := make([]error, len(groups))
	var report *domain.Report
	var eg errgroup.Group
	for i, g := range groups {
		w := runtime.NewWorker(g, cfg, opts...)
		eg.Go(func() error {
			r, err := w.Run(ctx)
			if g.Rank() == 0 {
				report = r
			}
			errs[i] = err
			return nil
		})
	}
	_ = eg.Wait()
	require.NoError(t, ctx.Err(), "workers did not finish within %s", RunTimeout)
	return report, errs
}
