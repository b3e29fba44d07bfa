package grid

// Store is the Local Grid Store of one worker: the field a sweep writes and the field it reads.
// Both are allocated once and mutated in place for the life of the run.
type Store struct {
	Current  *Field
	Previous *Field

	LocalRows int
	Cols      int
}

// NewStore allocates both fields for localRows real rows of cols interior columns.
func NewStore(localRows, cols int) *Store {
	return &Store{
		Current:   NewField(localRows, cols),
		Previous:  NewField(localRows, cols),
		LocalRows: localRows,
		Cols:      cols,
	}
}

// TopRow is the first real row of Current, sent to the upper neighbour.
func (s *Store) TopRow() []float64 { return s.Current.InteriorRow(1) }

// BottomRow is the last real row of Current, sent to the lower neighbour.
func (s *Store) BottomRow() []float64 { return s.Current.InteriorRow(s.LocalRows) }

// UpperGhost is the interior of the top ghost row of Previous.
func (s *Store) UpperGhost() []float64 { return s.Previous.InteriorRow(0) }

// LowerGhost is the interior of the bottom ghost row of Previous.
func (s *Store) LowerGhost() []float64 { return s.Previous.InteriorRow(s.LocalRows + 1) }
