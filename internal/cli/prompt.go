package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/laplace/pkg/domain"
	"github.com/aretw0/laplace/pkg/ports"
)

// Prompt asks for the iteration cap on a line-oriented reader.
type Prompt struct {
	In    io.Reader
	Out   io.Writer
	Limit int
}

var _ ports.IterationSource = (*Prompt)(nil)

// MaxIterations prints the question and reads one integer. Range checking is
// left to the solver so that the same rule applies to every source.
func (p *Prompt) MaxIterations(ctx context.Context) (int, error) {
	fmt.Fprintf(p.Out, "How many iterations? [1-%d]\n", p.Limit)

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		done <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return 0, fmt.Errorf("read iteration count: %w", res.err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(res.line))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidIterations, strings.TrimSpace(res.line))
		}
		return n, nil
	}
}
