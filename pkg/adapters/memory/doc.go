// Package memory provides an in-process process group where every worker is a
// goroutine and every message travels over a Go channel.
package memory
