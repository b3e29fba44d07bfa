package ports

import "context"

// Transport is the point-to-point layer of a process group.
// Every call blocks until the message is handed to the transport (Send) or has
// arrived (Receive). Messages between one (source, destination, tag) triple are
// delivered in order.
type Transport interface {
	// Rank returns the ordinal of the local worker, 0 <= Rank() < Size().
	Rank() int

	// Size returns the number of workers in the group.
	Size() int

	// Send transmits a copy of buf to dest. The count is len(buf).
	Send(ctx context.Context, buf []float64, dest, tag int) error

	// Receive blocks until a message from source with tag arrives and copies it into buf.
	// Returns domain.ErrCountMismatch if the message length differs from len(buf).
	Receive(ctx context.Context, buf []float64, source, tag int) error

	// Abort marks the whole group as failed. Pending and future calls on every
	// worker return an error wrapping domain.ErrAborted.
	Abort(ctx context.Context, cause error) error
}

// ProcessGroup is the full set of primitives consumed by the solver.
// Tags used with Send and Receive must be >= 0; negative tags belong to the collectives.
type ProcessGroup interface {
	Transport

	// Broadcast copies buf from root into buf on every other worker.
	Broadcast(ctx context.Context, buf []float64, root int) error

	// Reduce combines value from every worker with op. Only root receives the
	// reduced result; other workers get their own value back.
	Reduce(ctx context.Context, value float64, op ReduceOp, root int) (float64, error)

	// Barrier returns once every worker has entered it.
	Barrier(ctx context.Context) error
}

// IterationSource supplies the iteration cap. Only the coordinator consults it.
type IterationSource interface {
	MaxIterations(ctx context.Context) (int, error)
}

// IterationSourceFunc adapts a function to IterationSource.
type IterationSourceFunc func(ctx context.Context) (int, error)

func (f IterationSourceFunc) MaxIterations(ctx context.Context) (int, error) { return f(ctx) }
