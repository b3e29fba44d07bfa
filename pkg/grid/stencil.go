package grid

import "math"

// Sweep performs one Jacobi relaxation: every interior cell of Current becomes
// the average of its four neighbours in Previous. Ghost rows and boundary
// columns are left untouched.
func Sweep(s *Store) {
	for i := 1; i <= s.LocalRows; i++ {
		up := s.Previous.Row(i - 1)
		mid := s.Previous.Row(i)
		down := s.Previous.Row(i + 1)
		out := s.Current.Row(i)
		for j := 1; j <= s.Cols; j++ {
			out[j] = 0.25 * (down[j] + up[j] + mid[j+1] + mid[j-1])
		}
	}
}

// Promote copies the interior of Current into Previous and returns the largest
// absolute change it made. Ghost rows of Previous are never touched.
func Promote(s *Store) float64 {
	var delta float64
	for i := 1; i <= s.LocalRows; i++ {
		cur := s.Current.InteriorRow(i)
		prev := s.Previous.InteriorRow(i)
		for j, v := range cur {
			delta = math.Max(delta, math.Abs(v-prev[j]))
		}
		copy(prev, cur)
	}
	return delta
}
