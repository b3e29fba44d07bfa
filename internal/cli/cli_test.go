package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/laplace/internal/logging"
	"github.com/aretw0/laplace/internal/testutils"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func smallConfig(iterations int) domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Rows, cfg.Cols, cfg.Workers = 4, 4, 2
	cfg.MaxIterations = iterations
	cfg.ProgressEvery = 0
	return cfg
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	p := &Prompt{In: strings.NewReader(" 250\n"), Out: &out, Limit: 4000}
	n, err := p.MaxIterations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 250, n)
	assert.Equal(t, "How many iterations? [1-4000]\n", out.String())
}

func TestPrompt_NoTrailingNewline(t *testing.T) {
	p := &Prompt{In: strings.NewReader("12"), Out: io.Discard, Limit: 100}
	n, err := p.MaxIterations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestPrompt_NotANumber(t *testing.T) {
	p := &Prompt{In: strings.NewReader("many\n"), Out: io.Discard, Limit: 100}
	_, err := p.MaxIterations(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidIterations)
}

func TestPrompt_EOF(t *testing.T) {
	p := &Prompt{In: strings.NewReader(""), Out: io.Discard, Limit: 100}
	_, err := p.MaxIterations(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompt_Cancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Prompt{In: r, Out: io.Discard, Limit: 100}
	_, err := p.MaxIterations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintReport_Plain(t *testing.T) {
	var out bytes.Buffer
	err := printReport(&out, &domain.Report{Iterations: 1, GlobalDelta: 50, Elapsed: 250 * time.Millisecond}, PrettyAuto)
	require.NoError(t, err)
	assert.Equal(t, "Max error at iteration 1 was 50.000000\nTotal time was 0.250000 seconds.\n", out.String())
}

func TestPrintReport_Pretty(t *testing.T) {
	var out bytes.Buffer
	err := printReport(&out, &domain.Report{Outcome: domain.PhaseConverged, Iterations: 9}, PrettyAlways)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "converged")
	assert.NotContains(t, out.String(), "Max error at iteration")
}

func TestSolve_PromptsForIterations(t *testing.T) {
	var out bytes.Buffer
	err := Solve(context.Background(), RunOptions{
		Config: smallConfig(0),
		Pretty: PrettyNever,
		Logger: logging.NewNop(),
		In:     strings.NewReader("1\n"),
		Out:    &out,
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "How many iterations? [1-4000]", lines[0])
	assert.Equal(t, "Max error at iteration 1 was 50.000000", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Total time was "))
}

func TestSolve_RejectsOutOfRange(t *testing.T) {
	err := Solve(context.Background(), RunOptions{
		Config: smallConfig(0),
		Logger: logging.NewNop(),
		In:     strings.NewReader("0\n"),
		Out:    io.Discard,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidIterations)
}

func TestSolve_EndOfInputIsReported(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Solve(context.Background(), RunOptions{
		Config: smallConfig(0),
		Logger: logging.NewNop(),
		In:     strings.NewReader(""),
		Out:    &out,
		Err:    &errOut,
	})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Max error at iteration")
	assert.Contains(t, errOut.String(), "No iteration count given")
}

func TestHandleExecutionError(t *testing.T) {
	var errOut bytes.Buffer
	assert.NoError(t, handleExecutionError(&errOut, context.Canceled))
	assert.Empty(t, errOut.String())

	cause := fmt.Errorf("worker 1: %w", domain.ErrWorkerCountMismatch)
	assert.Equal(t, cause, handleExecutionError(&errOut, cause))

	assert.NoError(t, handleExecutionError(&errOut, fmt.Errorf("read iteration count: %w", io.EOF)))
	assert.Contains(t, errOut.String(), "No iteration count given")
}

func TestWorker_OverRedis(t *testing.T) {
	mr, _ := testutils.SetupRedis(t)
	cfg := smallConfig(1)

	outs := []*bytes.Buffer{{}, {}}
	var mu sync.Mutex
	var eg errgroup.Group
	for i := range outs {
		eg.Go(func() error {
			var buf bytes.Buffer
			err := Worker(context.Background(), WorkerOptions{
				RunOptions: RunOptions{
					Config: cfg,
					Pretty: PrettyNever,
					Logger: logging.NewNop(),
					In:     strings.NewReader(""),
					Out:    &buf,
				},
				RedisAddr:    mr.Addr(),
				RunID:        "cli-test",
				Rank:         -1,
			})
			mu.Lock()
			outs[i].Write(buf.Bytes())
			mu.Unlock()
			return err
		})
	}
	require.NoError(t, eg.Wait())

	combined := outs[0].String() + outs[1].String()
	assert.Equal(t, 1, strings.Count(combined, "Max error at iteration 1 was 50.000000"), combined)
}

func TestWorker_RequiresRunID(t *testing.T) {
	err := Worker(context.Background(), WorkerOptions{RunOptions: RunOptions{Config: smallConfig(1), Logger: logging.NewNop()}})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestServe(t *testing.T) {
	var out bytes.Buffer
	err := Serve(context.Background(), ServeOptions{
		RunOptions: RunOptions{
			Config: smallConfig(3),
			Pretty: PrettyNever,
			Logger: logging.NewNop(),
			In:     strings.NewReader(""),
			Out:    &out,
		},
		Addr: "127.0.0.1:0",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), fmt.Sprintf("Max error at iteration %d", 3))
}
