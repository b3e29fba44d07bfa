package domain

// Phase is the state of a worker's driver loop.
type Phase string

const (
	PhaseInit      Phase = "init"
	PhaseIterating Phase = "iterating"
	PhaseConverged Phase = "converged" // global delta fell to the threshold
	PhaseExhausted Phase = "exhausted" // iteration cap reached first
	PhaseFailed    Phase = "failed"
)

// Terminal reports whether no further transition can leave p.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseConverged, PhaseExhausted, PhaseFailed:
		return true
	}
	return false
}

func (p Phase) String() string { return string(p) }
