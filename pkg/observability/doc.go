/*
Package observability provides lifecycle hooks for monitoring solver runs.

It includes Prometheus metrics fed from iteration events, a Monitor that keeps
the latest snapshot of every worker for status endpoints, and Combine for
attaching several hook sets to the same run.
*/
package observability
