package grid

import "github.com/aretw0/laplace/pkg/domain"

// Initialize resets both fields of s and writes the fixed boundary of partition p.
//
// The last worker's bottom ghost row rises linearly from 0 to tMax along the
// columns. Every worker's right boundary column rises linearly with the global
// row index, ghost rows included, and is written last so it owns the corners.
// Everything else is zero.
func Initialize(s *Store, p domain.Partition, globalRows int, tMax float64) {
	prev := s.Previous
	prev.Zero()

	if p.Last() {
		bottom := prev.Row(s.LocalRows + 1)
		for j := range bottom {
			bottom[j] = tMax * float64(j) / float64(s.Cols)
		}
	}

	right := s.Cols + 1
	for i := 0; i <= s.LocalRows+1; i++ {
		prev.Set(i, right, tMax*float64(p.GlobalRow(i))/float64(globalRows))
	}

	s.Current.CopyFrom(prev)
}
