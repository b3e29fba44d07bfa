package runtime

import (
	"context"
	"fmt"
)

// TagGather carries interior bands to the coordinator at the end of a run.
const TagGather = 102

// gather assembles the global interior field at the coordinator. Other ranks send
// their band as one flattened message and get a nil field back.
func (w *Worker) gather(ctx context.Context) ([][]float64, error) {
	rows, cols := w.part.LocalRows, w.cfg.Cols

	if !w.part.Coordinator() {
		flat := make([]float64, 0, rows*cols)
		for i := 1; i <= rows; i++ {
			flat = append(flat, w.store.Previous.InteriorRow(i)...)
		}
		if err := w.group.Send(ctx, flat, coordinator, TagGather); err != nil {
			return nil, fmt.Errorf("gather send: %w", err)
		}
		return nil, nil
	}

	field := make([][]float64, 0, w.cfg.Rows)
	field = append(field, w.store.Previous.Interior()...)

	flat := make([]float64, rows*cols)
	for r := 1; r < w.part.Size; r++ {
		if err := w.group.Receive(ctx, flat, r, TagGather); err != nil {
			return nil, fmt.Errorf("gather from %d: %w", r, err)
		}
		for i := 0; i < rows; i++ {
			field = append(field, append([]float64(nil), flat[i*cols:(i+1)*cols]...))
		}
	}
	return field, nil
}
