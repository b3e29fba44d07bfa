package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceOp_Apply(t *testing.T) {
	assert.Equal(t, 3.0, OpMax.Apply(-1, 3))
	assert.Equal(t, -1.0, OpMin.Apply(-1, 3))
	assert.Equal(t, 2.0, OpSum.Apply(-1, 3))
	assert.Equal(t, "sum", OpSum.String())
	assert.Equal(t, "unknown", ReduceOp(42).String())
}

func TestReduceOp_UnknownOperator(t *testing.T) {
	assert.True(t, OpMin.Valid())
	assert.False(t, ReduceOp(42).Valid())
	assert.False(t, ReduceOp(-1).Valid())
	assert.Panics(t, func() { ReduceOp(42).Apply(1, 2) })
}
