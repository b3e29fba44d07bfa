/*
Package domain contains the core domain models of the laplace solver.

It defines the configuration of a run, how the global grid is partitioned across
workers, the phases of the driver loop and the report produced at the end. This
package is kept pure and free of I/O or transport concerns, following Hexagonal
Architecture principles.

# Key Entities

  - Config: The global problem (grid size, boundary temperature, stop criteria).
  - Partition: The band of global rows owned by one worker, plus its Neighbors.
  - Phase: The state of a worker's driver loop (Init, Iterating, Converged, Exhausted, Failed).
  - Report: The coordinator's summary of a finished run.
  - LifecycleHooks: Observability callbacks fired by every worker.
*/
package domain
