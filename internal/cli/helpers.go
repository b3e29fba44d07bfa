package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/laplace/internal/logging"
	"github.com/aretw0/laplace/internal/presentation/tui"
	"github.com/aretw0/laplace/pkg/domain"
	"golang.org/x/term"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// LogOptions selects the application logger.
type LogOptions struct {
	Level  string
	Format string
}

// NewLogger configures the application logger on Stderr.
func NewLogger(opts LogOptions) (*slog.Logger, error) {
	level, err := logging.ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(os.Stderr, format, level), nil
}

// PrettyMode controls glamour rendering of the report.
type PrettyMode string

const (
	PrettyAuto   PrettyMode = "auto"
	PrettyAlways PrettyMode = "always"
	PrettyNever  PrettyMode = "never"
)

// enabled resolves auto mode against out.
func (m PrettyMode) enabled(out io.Writer) bool {
	switch m {
	case PrettyAlways:
		return true
	case PrettyNever, "":
		return false
	}
	return isTerminal(out)
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// printReport writes the coordinator's result. The plain form is two lines
// that scripts can parse.
func printReport(out io.Writer, r *domain.Report, pretty PrettyMode) error {
	if pretty.enabled(out) {
		rendered, err := tui.RenderReport(r)
		if err == nil {
			_, err = fmt.Fprint(out, rendered)
			return err
		}
	}
	if _, err := fmt.Fprintf(out, "Max error at iteration %d was %f\n", r.Iterations, r.GlobalDelta); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Total time was %f seconds.\n", r.Elapsed.Seconds())
	return err
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// handleExecutionError maps interruptions to a clean exit. Input that ended
// before an iteration count was read is still reported on errOut.
func handleExecutionError(errOut io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		if errOut != nil {
			fmt.Fprintln(errOut, "No iteration count given: input ended before an answer was read. Nothing was solved.")
		}
		return nil
	}
	if isInterrupted(err) {
		return nil
	}
	return err
}
