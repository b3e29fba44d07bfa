/*
Package ports defines the driven ports (interfaces) for the laplace solver.

These interfaces decouple the driver loop from the way workers talk to each other
and from where the iteration cap comes from, allowing the same solver to run as
goroutines in one process or as separate processes sharing a broker.

# Key Interfaces

  - Transport: Blocking point-to-point send/receive plus a group-wide abort.
  - ProcessGroup: A Transport extended with broadcast, reduction and barrier.
  - IterationSource: Supplies the iteration cap to the coordinator at startup.
*/
package ports
