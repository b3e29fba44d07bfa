// Package runtime implements the per-worker driver loop of the solver: startup,
// Jacobi sweeps, halo exchange with the vertical neighbours, and the global
// convergence agreement.
package runtime
