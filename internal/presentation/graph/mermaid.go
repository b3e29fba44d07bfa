package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/laplace/pkg/domain"
)

// Overlay contains per-worker run state to visualize on the graph.
type Overlay struct {
	Phases map[int]domain.Phase
}

// Halo tags, labelled on the edges. They mirror the runtime's message tags.
const (
	tagDown = 100
	tagUp   = 101
)

// GenerateMermaid produces a Mermaid flowchart of the row decomposition: one
// node per worker and one edge per direction of each halo exchange.
// It applies semantic styling:
// - Coordinator (rank 0): ((Circle))
// - Last worker, owner of the heated bottom edge: [[Subroutine]]
// - Default: [Rectangle]
// It also applies overlay styles per phase if provided.
func GenerateMermaid(parts []domain.Partition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, p := range parts {
		opener, closer := "[", "]"
		switch {
		case p.Coordinator():
			opener, closer = "((", "))"
		case p.Last():
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"rank %d <br/> rows %d-%d\"%s\n",
			nodeID(p.Rank), opener, p.Rank, p.FirstRow+1, p.FirstRow+p.LocalRows, closer)
	}

	for _, p := range parts {
		if p.Neighbors.Lower {
			fmt.Fprintf(&sb, "    %s -- \"down %d\" --> %s\n", nodeID(p.Rank), tagDown, nodeID(p.Rank+1))
			fmt.Fprintf(&sb, "    %s -. \"up %d\" .-> %s\n", nodeID(p.Rank+1), tagUp, nodeID(p.Rank))
		}
	}

	if overlay != nil && len(overlay.Phases) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef iterating fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef done fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#c62828,stroke-width:4px,color:#000;\n")

		ranks := make([]int, 0, len(overlay.Phases))
		for r := range overlay.Phases {
			ranks = append(ranks, r)
		}
		slices.Sort(ranks)
		for _, r := range ranks {
			if class := phaseClass(overlay.Phases[r]); class != "" {
				fmt.Fprintf(&sb, "    class %s %s;\n", nodeID(r), class)
			}
		}
	}

	return sb.String()
}

func phaseClass(p domain.Phase) string {
	switch p {
	case domain.PhaseIterating:
		return "iterating"
	case domain.PhaseConverged, domain.PhaseExhausted:
		return "done"
	case domain.PhaseFailed:
		return "failed"
	}
	return ""
}

func nodeID(rank int) string {
	return fmt.Sprintf("w%d", rank)
}
