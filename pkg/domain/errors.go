package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrGridNotDivisible is returned when the global row count cannot be split evenly across workers.
var ErrGridNotDivisible = errors.New("grid rows not divisible by worker count")

// ErrWorkerCountMismatch is returned when the process group size differs from the configured worker count.
var ErrWorkerCountMismatch = errors.New("unexpected worker count")

// ErrInvalidIterations is returned when the iteration cap is non-positive or above the configured limit.
var ErrInvalidIterations = errors.New("invalid iteration count")

// ErrAborted is returned by process group primitives once any worker aborted the group.
var ErrAborted = errors.New("process group aborted")

// ErrInvalidRank is returned when a rank is outside [0, size).
var ErrInvalidRank = errors.New("invalid rank")

// ErrReservedTag is returned when user code sends on a tag reserved for collectives.
var ErrReservedTag = errors.New("reserved message tag")

// ErrCountMismatch is returned when a received payload length differs from the receive buffer.
var ErrCountMismatch = errors.New("message count mismatch")

// ErrUnknownReduceOp is returned when a reduction is asked for an operator it does not define.
var ErrUnknownReduceOp = errors.New("unknown reduce operator")

// ConfigError describes a single rejected configuration field.
type ConfigError struct {
	Field string
	Err   error
	Msg   string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Err, e.Field)
	}
	return fmt.Sprintf("%s: %s: %s", e.Err, e.Field, e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func invalidf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Err: ErrInvalidConfig, Msg: fmt.Sprintf(format, args...)}
}
