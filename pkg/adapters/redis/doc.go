/*
Package redis provides a process group whose workers are separate OS processes
coordinating through a shared Redis instance.

Messages are stored as little-endian float64 vectors, one Redis list per
(source, destination, tag) triple, under a per-run key prefix:

	laplace:<run>:msg:<src>:<dst>:<tag>   pending messages
	laplace:<run>:abort                   abort cause, set once by any worker
	laplace:<run>:ranks                   counter used by ClaimRank
*/
package redis
