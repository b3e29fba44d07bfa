package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/laplace"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallBase() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Rows, cfg.Cols, cfg.Workers = 4, 4, 2
	return cfg
}

func TestHandleSolve(t *testing.T) {
	s := NewServer(smallBase(), nil)
	resp, err := s.handleSolve(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"max_iterations": 1.0,
		"gather":         true,
	})
	require.NoError(t, err)
	assert.Equal(t, "exhausted", resp.Outcome)
	assert.Equal(t, 1, resp.Iterations)
	assert.Equal(t, 50.0, resp.GlobalDelta)
	require.Len(t, resp.Field, 4)
	assert.Equal(t, []float64{6.25, 12.5, 18.75, 50}, resp.Field[3])
}

func TestHandleSolve_UsesBaseAndOverrides(t *testing.T) {
	var got domain.Config
	solve := func(_ context.Context, cfg domain.Config, _ ...laplace.Option) (*domain.Report, error) {
		got = cfg
		return &domain.Report{Outcome: domain.PhaseConverged, Iterations: 3}, nil
	}
	s := NewServer(smallBase(), solve)
	resp, err := s.handleSolve(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"max_iterations": 30.0,
		"rows":           8.0,
		"threshold":      0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "converged", resp.Outcome)
	assert.Equal(t, 8, got.Rows)
	assert.Equal(t, 4, got.Cols)
	assert.Equal(t, 30, got.MaxIterations)
	assert.Equal(t, 0.5, got.Threshold)
	assert.Zero(t, got.ProgressEvery)
}

func TestHandleSolve_Rejects(t *testing.T) {
	s := NewServer(smallBase(), nil)
	ctx := context.Background()

	_, err := s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
	assert.ErrorIs(t, err, domain.ErrInvalidIterations)

	_, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"max_iterations": 5000.0})
	assert.ErrorIs(t, err, domain.ErrInvalidIterations)

	_, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"max_iterations": 5.0, "rows": 5.0})
	assert.ErrorIs(t, err, domain.ErrGridNotDivisible)

	_, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"max_iterations": 5.0, "colour": "red"})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"max_iterations": 5.0, "rows": 1000.0, "cols": 1000.0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestHandleSolve_GridLimitWithoutOverflow(t *testing.T) {
	called := false
	s := NewServer(smallBase(), func(context.Context, domain.Config, ...laplace.Option) (*domain.Report, error) {
		called = true
		return &domain.Report{}, nil
	})
	ctx := context.Background()

	// 2^32 x 2^32 wraps to zero cells in a 64-bit int.
	_, err := s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"max_iterations": 5.0, "rows": float64(1 << 32), "cols": float64(1 << 32),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"max_iterations": 5.0, "rows": 2.0, "cols": float64(maxToolCells),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.False(t, called)

	_, err = s.handleSolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"max_iterations": 5.0, "rows": 2.0, "cols": float64(maxToolCells / 2),
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestHandleSolve_RejectsFractionalIntegers(t *testing.T) {
	called := false
	s := NewServer(smallBase(), func(context.Context, domain.Config, ...laplace.Option) (*domain.Report, error) {
		called = true
		return &domain.Report{}, nil
	})

	_, err := s.handleSolve(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"max_iterations": 5.0, "rows": 4.5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.False(t, called)

	_, err = s.handlePartition(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"workers": 2.5})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestHandlePartition(t *testing.T) {
	s := NewServer(smallBase(), nil)
	resp, err := s.handlePartition(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"rows":    12.0,
		"workers": 3.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.LocalRows)
	require.Len(t, resp.Partitions, 3)
	assert.Equal(t, 8, resp.Partitions[2].FirstRow)
}
