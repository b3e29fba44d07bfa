package domain

import "fmt"

// Neighbors records which vertical neighbours a worker exchanges ghost rows with.
type Neighbors struct {
	Upper bool // rank-1 exists
	Lower bool // rank+1 exists
}

// NeighborsOf computes the neighbour relations of rank in a group of size workers.
func NeighborsOf(rank, size int) Neighbors {
	return Neighbors{
		Upper: rank > 0,
		Lower: rank < size-1,
	}
}

// Partition is the immutable identity of one worker and the band of global rows it owns.
type Partition struct {
	Rank      int `json:"rank"`
	Size      int `json:"size"`
	LocalRows int `json:"local_rows"`
	FirstRow  int `json:"first_row"`

	Neighbors Neighbors `json:"-"`
}

// NewPartition derives the partition of rank for cfg. The group size must equal cfg.Workers.
func NewPartition(cfg Config, rank, size int) (Partition, error) {
	if err := cfg.Validate(); err != nil {
		return Partition{}, err
	}
	if size != cfg.Workers {
		return Partition{}, fmt.Errorf("%w: group has %d workers, configuration expects %d",
			ErrWorkerCountMismatch, size, cfg.Workers)
	}
	if rank < 0 || rank >= size {
		return Partition{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidRank, rank, size)
	}
	local := cfg.LocalRows()
	return Partition{
		Rank:      rank,
		Size:      size,
		LocalRows: local,
		FirstRow:  rank * local,
		Neighbors: NeighborsOf(rank, size),
	}, nil
}

// Partitions returns the partition of every rank, in rank order.
func Partitions(cfg Config) ([]Partition, error) {
	parts := make([]Partition, 0, cfg.Workers)
	for rank := 0; rank < cfg.Workers; rank++ {
		p, err := NewPartition(cfg, rank, cfg.Workers)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// Coordinator reports whether the partition belongs to rank 0.
func (p Partition) Coordinator() bool { return p.Rank == 0 }

// Last reports whether the partition owns the bottom edge of the global grid.
func (p Partition) Last() bool { return p.Rank == p.Size-1 }

// GlobalRow maps a local row index (ghost rows included) to its global row index.
func (p Partition) GlobalRow(local int) int { return p.FirstRow + local }
