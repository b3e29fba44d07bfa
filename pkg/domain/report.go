package domain

import "time"

// Report is the coordinator's summary of a finished run.
type Report struct {
	Outcome     Phase         `json:"outcome"`
	Iterations  int           `json:"iterations"`
	GlobalDelta float64       `json:"global_delta"`
	Elapsed     time.Duration `json:"elapsed"`

	Rows    int `json:"rows"`
	Cols    int `json:"cols"`
	Workers int `json:"workers"`

	// Field holds the final interior values (Rows x Cols) when Config.Gather is set.
	Field [][]float64 `json:"field,omitempty"`
}

// Converged reports whether the run stopped on the threshold rather than the cap.
func (r *Report) Converged() bool {
	return r != nil && r.Outcome == PhaseConverged
}
