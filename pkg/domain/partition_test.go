package domain_test

import (
	"testing"

	"github.com/aretw0/laplace/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighborsOf(t *testing.T) {
	assert.Equal(t, domain.Neighbors{}, domain.NeighborsOf(0, 1))
	assert.Equal(t, domain.Neighbors{Lower: true}, domain.NeighborsOf(0, 3))
	assert.Equal(t, domain.Neighbors{Upper: true, Lower: true}, domain.NeighborsOf(1, 3))
	assert.Equal(t, domain.Neighbors{Upper: true}, domain.NeighborsOf(2, 3))
}

func TestPartitions(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Rows = 12
	cfg.Workers = 3

	parts, err := domain.Partitions(cfg)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	for i, p := range parts {
		assert.Equal(t, i, p.Rank)
		assert.Equal(t, 4, p.LocalRows)
		assert.Equal(t, 4*i, p.FirstRow)
		assert.Equal(t, 4*i+5, p.GlobalRow(5))
	}
	assert.True(t, parts[0].Coordinator())
	assert.True(t, parts[2].Last())
	assert.False(t, parts[1].Last())
}

func TestNewPartition_Mismatch(t *testing.T) {
	cfg := domain.DefaultConfig()

	_, err := domain.NewPartition(cfg, 0, 3)
	assert.ErrorIs(t, err, domain.ErrWorkerCountMismatch)

	_, err = domain.NewPartition(cfg, 4, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidRank)
}

func TestPhase_Terminal(t *testing.T) {
	assert.False(t, domain.PhaseInit.Terminal())
	assert.False(t, domain.PhaseIterating.Terminal())
	assert.True(t, domain.PhaseConverged.Terminal())
	assert.True(t, domain.PhaseExhausted.Terminal())
	assert.True(t, domain.PhaseFailed.Terminal())
}
