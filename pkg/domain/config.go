package domain

import "fmt"

const (
	// DefaultMaxTemp is the temperature reached at the bottom-right corner of the plate.
	DefaultMaxTemp = 100.0

	// DefaultThreshold is the global delta at or below which a run is considered converged.
	DefaultThreshold = 0.01

	// DefaultIterationLimit bounds the iteration cap accepted at startup.
	DefaultIterationLimit = 4000

	// DefaultProgressEvery is the iteration period of progress logging.
	DefaultProgressEvery = 100
)

// Config describes one solver run. Every worker of a group must be started with the same Config.
type Config struct {
	// Rows and Cols are the global interior dimensions (boundaries excluded).
	Rows int `json:"rows" yaml:"rows" mapstructure:"rows"`
	Cols int `json:"cols" yaml:"cols" mapstructure:"cols"`

	// Workers is the expected process group size. Rows must divide evenly by it.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	MaxTemp   float64 `json:"max_temp" yaml:"max_temp" mapstructure:"max_temp"`
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`

	// MaxIterations is the iteration cap. Zero means the coordinator asks its IterationSource.
	MaxIterations  int `json:"max_iterations" yaml:"max_iterations" mapstructure:"max_iterations"`
	IterationLimit int `json:"iteration_limit" yaml:"iteration_limit" mapstructure:"iteration_limit"`

	// ProgressEvery enables periodic corner logging on the last worker. Zero disables it.
	ProgressEvery int `json:"progress_every" yaml:"progress_every" mapstructure:"progress_every"`

	// Gather collects the final interior field at the coordinator.
	Gather bool `json:"gather" yaml:"gather" mapstructure:"gather"`
}

// DefaultConfig returns the configuration used when nothing else is specified.
func DefaultConfig() Config {
	return Config{
		Rows:           1000,
		Cols:           1000,
		Workers:        4,
		MaxTemp:        DefaultMaxTemp,
		Threshold:      DefaultThreshold,
		IterationLimit: DefaultIterationLimit,
		ProgressEvery:  DefaultProgressEvery,
	}
}

// Validate checks the configuration values that do not depend on a running group.
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0:
		return invalidf("rows", "must be positive, got %d", c.Rows)
	case c.Cols <= 0:
		return invalidf("cols", "must be positive, got %d", c.Cols)
	case c.Workers <= 0:
		return invalidf("workers", "must be positive, got %d", c.Workers)
	case c.MaxTemp <= 0:
		return invalidf("max_temp", "must be positive, got %g", c.MaxTemp)
	case c.Threshold <= 0:
		return invalidf("threshold", "must be positive, got %g", c.Threshold)
	case c.IterationLimit <= 0:
		return invalidf("iteration_limit", "must be positive, got %d", c.IterationLimit)
	case c.ProgressEvery < 0:
		return invalidf("progress_every", "must not be negative, got %d", c.ProgressEvery)
	case c.MaxIterations < 0:
		return invalidf("max_iterations", "must not be negative, got %d", c.MaxIterations)
	}
	if c.Rows%c.Workers != 0 {
		return &ConfigError{
			Field: "rows",
			Err:   ErrGridNotDivisible,
			Msg:   fmt.Sprintf("%d rows over %d workers", c.Rows, c.Workers),
		}
	}
	if c.MaxIterations > 0 {
		return c.CheckIterations(c.MaxIterations)
	}
	return nil
}

// CheckIterations validates an iteration cap against IterationLimit.
func (c Config) CheckIterations(n int) error {
	limit := c.IterationLimit
	if limit <= 0 {
		limit = DefaultIterationLimit
	}
	if n < 1 || n > limit {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidIterations, n, limit)
	}
	return nil
}

// LocalRows is the number of real rows owned by each worker.
func (c Config) LocalRows() int {
	if c.Workers <= 0 {
		return 0
	}
	return c.Rows / c.Workers
}
