// Package source provides implementations of ports.IterationSource.
package source

import (
	"context"

	"github.com/aretw0/laplace/pkg/ports"
)

// Fixed always answers n. Validation happens in the caller.
type Fixed int

var _ ports.IterationSource = Fixed(0)

// MaxIterations returns the fixed cap.
func (f Fixed) MaxIterations(context.Context) (int, error) { return int(f), nil }
