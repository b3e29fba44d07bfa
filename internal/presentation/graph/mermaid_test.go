package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/laplace/internal/presentation/graph"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/stretchr/testify/require"
)

func partitions(t *testing.T, rows, workers int) []domain.Partition {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.Rows, cfg.Workers = rows, workers
	parts, err := domain.Partitions(cfg)
	require.NoError(t, err)
	return parts
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		parts       []domain.Partition
		overlay     *graph.Overlay
		contains    []string
		notContains []string
	}{
		{
			name:  "Shapes",
			parts: partitions(t, 12, 3),
			contains: []string{
				`w0(("rank 0 <br/> rows 1-4"))`,
				`w1["rank 1 <br/> rows 5-8"]`,
				`w2[["rank 2 <br/> rows 9-12"]]`,
			},
		},
		{
			name:  "Halo Edges",
			parts: partitions(t, 12, 3),
			contains: []string{
				`w0 -- "down 100" --> w1`,
				`w1 -. "up 101" .-> w0`,
				`w1 -- "down 100" --> w2`,
				`w2 -. "up 101" .-> w1`,
			},
			notContains: []string{"w2 -- "},
		},
		{
			name:        "Single Worker",
			parts:       partitions(t, 4, 1),
			contains:    []string{`w0(("rank 0 <br/> rows 1-4"))`},
			notContains: []string{"-->", "classDef"},
		},
		{
			name:  "Overlay",
			parts: partitions(t, 4, 2),
			overlay: &graph.Overlay{Phases: map[int]domain.Phase{
				0: domain.PhaseConverged,
				1: domain.PhaseFailed,
			}},
			contains: []string{
				"class w0 done;",
				"class w1 failed;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.parts, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}
