/*
Package laplace solves the steady-state 2D heat (Laplace) equation on a rectangular
grid with the Jacobi method, decomposed by rows across a group of cooperating workers.

Each worker owns a contiguous band of rows plus two ghost rows. Every iteration
it sweeps its band with the five-point stencil, exchanges edge rows with its
vertical neighbours and agrees with the group on the maximum change. All workers
stop on the same iteration, either because the change fell below the threshold
or because the iteration cap was reached.

# Usage

In-process runs start one goroutine per worker over a memory process group:

	cfg := laplace.DefaultConfig()
	cfg.Rows, cfg.Cols, cfg.Workers = 1000, 1000, 4
	cfg.MaxIterations = 3000

	report, err := laplace.Solve(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Iterations, report.GlobalDelta)

Multi-process runs give each process its own ports.ProcessGroup (for example
the Redis adapter) and call RunWorker with it.

# Boundary conditions

The top and left edges are held at zero. The bottom and right edges ramp linearly
from zero to the configured maximum temperature, meeting at the bottom-right corner.
*/
package laplace
