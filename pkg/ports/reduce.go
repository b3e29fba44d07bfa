package ports

import (
	"fmt"
	"math"
)

// ReduceOp is the binary operator applied by ProcessGroup.Reduce.
type ReduceOp int

const (
	OpMax ReduceOp = iota
	OpMin
	OpSum
)

// Valid reports whether op is one of the defined operators.
func (op ReduceOp) Valid() bool {
	return op >= OpMax && op <= OpSum
}

// Apply combines two values. It panics on an operator Valid rejects.
func (op ReduceOp) Apply(a, b float64) float64 {
	switch op {
	case OpMax:
		return math.Max(a, b)
	case OpMin:
		return math.Min(a, b)
	case OpSum:
		return a + b
	}
	panic(fmt.Sprintf("ports: unknown reduce operator %d", int(op)))
}

func (op ReduceOp) String() string {
	switch op {
	case OpMax:
		return "max"
	case OpMin:
		return "min"
	case OpSum:
		return "sum"
	}
	return "unknown"
}
