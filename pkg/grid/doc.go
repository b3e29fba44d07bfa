/*
Package grid holds a worker's local temperature fields and the numerical kernels
that act on them.

A Field is a (localRows+2) x (cols+2) matrix. Rows 0 and localRows+1 are ghost
rows filled by the neighbouring workers (or boundary values on the edge workers);
columns 0 and cols+1 are fixed boundary columns. A Store pairs the field being
written by a sweep (Current) with the field it reads from (Previous).
*/
package grid
