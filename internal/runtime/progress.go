package runtime

import (
	"fmt"
	"strings"
)

// cornerCells is how many cells of the bottom-right diagonal the progress line shows.
const cornerCells = 6

// trackProgress logs the bottom-right diagonal of the global grid every
// ProgressEvery iterations. Only the last worker owns those cells.
func (w *Worker) trackProgress(iteration int) {
	every := w.cfg.ProgressEvery
	if every <= 0 || iteration%every != 0 || !w.part.Last() {
		return
	}

	var b strings.Builder
	for k := cornerCells - 1; k >= 0; k-- {
		row, col := w.part.LocalRows-k, w.cfg.Cols-k
		if row < 1 || col < 1 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "[%d,%d]: %5.2f", w.part.GlobalRow(row), col, w.store.Current.At(row, col))
	}
	w.logger.Info("progress", "iteration", iteration, "corner", b.String())
}
