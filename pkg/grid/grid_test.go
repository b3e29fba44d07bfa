package grid_test

import (
	"testing"

	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partitionsFor(t *testing.T, rows, cols, workers int) []domain.Partition {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.Rows, cfg.Cols, cfg.Workers = rows, cols, workers
	parts, err := domain.Partitions(cfg)
	require.NoError(t, err)
	return parts
}

func newInitialized(t *testing.T, p domain.Partition, rows, cols int, tMax float64) *grid.Store {
	t.Helper()
	s := grid.NewStore(p.LocalRows, cols)
	grid.Initialize(s, p, rows, tMax)
	return s
}

func TestNewField_Dims(t *testing.T) {
	f := grid.NewField(3, 5)
	r, c := f.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 7, c)
	assert.Len(t, f.InteriorRow(1), 5)
	assert.Len(t, f.Interior(), 3)
}

func TestInitialize_BoundaryInvariants(t *testing.T) {
	const rows, cols, tMax = 12, 6, 100.0

	for _, p := range partitionsFor(t, rows, cols, 3) {
		s := newInitialized(t, p, rows, cols, tMax)
		prev := s.Previous

		for i := 0; i <= p.LocalRows+1; i++ {
			global := p.GlobalRow(i)
			assert.Equal(t, tMax*float64(global)/rows, prev.At(i, cols+1), "rank %d right column row %d", p.Rank, i)
			assert.Equal(t, 0.0, prev.At(i, 0), "rank %d left column row %d", p.Rank, i)
		}

		for j := 0; j <= cols; j++ {
			assert.Equal(t, 0.0, prev.At(0, j), "rank %d top row col %d", p.Rank, j)
			if p.Last() {
				assert.Equal(t, tMax*float64(j)/cols, prev.At(p.LocalRows+1, j), "bottom row col %d", j)
			} else {
				assert.Equal(t, 0.0, prev.At(p.LocalRows+1, j), "rank %d bottom ghost col %d", p.Rank, j)
			}
		}

		for i := 1; i <= p.LocalRows; i++ {
			for j := 1; j <= cols; j++ {
				assert.Equal(t, 0.0, prev.At(i, j))
			}
		}

		assert.Equal(t, prev.Interior(), s.Current.Interior())
		assert.Equal(t, prev.At(0, cols+1), s.Current.At(0, cols+1))
	}
}

func TestInitialize_Reinitializes(t *testing.T) {
	p := partitionsFor(t, 4, 4, 1)[0]
	s := newInitialized(t, p, 4, 4, 100)
	s.Previous.Set(2, 2, 42)

	grid.Initialize(s, p, 4, 100)
	assert.Equal(t, 0.0, s.Previous.At(2, 2))
}

// Hand-derived first sweep of a 4x4 interior with T_max = 100 split over two workers.
func TestSweep_FourByFourTwoWorkers(t *testing.T) {
	parts := partitionsFor(t, 4, 4, 2)

	want := [][][]float64{
		{
			{0, 0, 0, 6.25},
			{0, 0, 0, 12.5},
		},
		{
			{0, 0, 0, 18.75},
			{6.25, 12.5, 18.75, 50},
		},
	}
	wantDelta := []float64{12.5, 50}

	for _, p := range parts {
		s := newInitialized(t, p, 4, 4, 100)
		grid.Sweep(s)
		assert.Equal(t, want[p.Rank], s.Current.Interior(), "rank %d", p.Rank)
		assert.Equal(t, wantDelta[p.Rank], grid.Promote(s), "rank %d", p.Rank)
	}
}

func TestSweep_LeavesGhostsAndBoundaries(t *testing.T) {
	p := partitionsFor(t, 4, 4, 2)[1]
	s := newInitialized(t, p, 4, 4, 100)
	for j := 0; j <= 5; j++ {
		s.Current.Set(0, j, -1)
		s.Current.Set(3, j, -1)
	}
	for i := 0; i <= 3; i++ {
		s.Current.Set(i, 0, -1)
		s.Current.Set(i, 5, -1)
	}

	grid.Sweep(s)

	for j := 0; j <= 5; j++ {
		assert.Equal(t, -1.0, s.Current.At(0, j))
		assert.Equal(t, -1.0, s.Current.At(3, j))
	}
	for i := 0; i <= 3; i++ {
		assert.Equal(t, -1.0, s.Current.At(i, 0))
		assert.Equal(t, -1.0, s.Current.At(i, 5))
	}
}

func TestPromote_Idempotent(t *testing.T) {
	p := partitionsFor(t, 6, 5, 1)[0]
	s := newInitialized(t, p, 6, 5, 100)

	for k := 0; k < 3; k++ {
		grid.Sweep(s)
		grid.Promote(s)
		assert.Equal(t, s.Current.Interior(), s.Previous.Interior(), "after promotion %d", k)
	}

	assert.Equal(t, 0.0, grid.Promote(s), "second promotion without a sweep changes nothing")
}

func TestPromote_KeepsGhostRows(t *testing.T) {
	p := partitionsFor(t, 4, 3, 2)[0]
	s := newInitialized(t, p, 4, 3, 100)
	copy(s.LowerGhost(), []float64{7, 8, 9})
	for j := 1; j <= 3; j++ {
		s.Current.Set(3, j, -5)
	}

	grid.Sweep(s)
	grid.Promote(s)

	assert.Equal(t, []float64{7, 8, 9}, s.LowerGhost())
	assert.Equal(t, []float64{0, 0, 0}, s.UpperGhost())
}

func TestStore_EdgeRowsAlias(t *testing.T) {
	s := grid.NewStore(3, 2)
	s.TopRow()[0] = 1
	s.BottomRow()[1] = 2

	assert.Equal(t, 1.0, s.Current.At(1, 1))
	assert.Equal(t, 2.0, s.Current.At(3, 2))
}
