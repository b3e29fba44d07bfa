package grid

import "gonum.org/v1/gonum/mat"

// Field is one temperature field of a worker, ghost rows and boundary columns included.
type Field struct {
	m         *mat.Dense
	localRows int
	cols      int
}

// NewField allocates a zeroed field for localRows real rows of cols interior columns.
func NewField(localRows, cols int) *Field {
	return &Field{
		m:         mat.NewDense(localRows+2, cols+2, nil),
		localRows: localRows,
		cols:      cols,
	}
}

// Dims returns the full dimensions, ghost rows and boundary columns included.
func (f *Field) Dims() (rows, cols int) { return f.m.Dims() }

func (f *Field) At(i, j int) float64 { return f.m.At(i, j) }

func (f *Field) Set(i, j int, v float64) { f.m.Set(i, j, v) }

// Row returns row i as a slice aliasing the field storage.
func (f *Field) Row(i int) []float64 { return f.m.RawRowView(i) }

// InteriorRow returns columns 1..cols of row i, aliasing the field storage.
func (f *Field) InteriorRow(i int) []float64 { return f.m.RawRowView(i)[1 : f.cols+1] }

// Zero sets every cell to zero.
func (f *Field) Zero() { f.m.Zero() }

// CopyFrom overwrites every cell with the values of src. Both fields must have the same shape.
func (f *Field) CopyFrom(src *Field) { f.m.Copy(src.m) }

// Matrix exposes the field as a read-only gonum matrix.
func (f *Field) Matrix() mat.Matrix { return f.m }

// Interior returns a copy of the real rows and interior columns.
func (f *Field) Interior() [][]float64 {
	out := make([][]float64, f.localRows)
	for i := range out {
		out[i] = append([]float64(nil), f.InteriorRow(i+1)...)
	}
	return out
}
