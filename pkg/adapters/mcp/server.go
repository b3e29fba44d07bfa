// Package mcp exposes the solver as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/laplace"
	"github.com/aretw0/laplace/internal/config"
	"github.com/aretw0/laplace/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SolveResponse is the structured result of the solve tool.
type SolveResponse struct {
	Outcome     string      `json:"outcome" jsonschema_description:"converged or exhausted"`
	Iterations  int         `json:"iterations" jsonschema_description:"Number of iterations performed"`
	GlobalDelta float64     `json:"global_delta" jsonschema_description:"Maximum temperature change of the last iteration"`
	ElapsedMS   float64     `json:"elapsed_ms" jsonschema_description:"Wall-clock time of the iteration phase in milliseconds"`
	Field       [][]float64 `json:"field,omitempty" jsonschema_description:"Final interior temperatures, row major (only when gather is set)"`
}

// PartitionResponse describes how a grid is split across workers.
type PartitionResponse struct {
	LocalRows  int                `json:"local_rows" jsonschema_description:"Rows owned by each worker"`
	Partitions []domain.Partition `json:"partitions" jsonschema_description:"Band of global rows owned by each rank"`
}

// maxToolCells bounds the grid size the solve tool accepts.
const maxToolCells = 250_000

// Solver runs one solve. laplace.Solve satisfies it.
type Solver func(ctx context.Context, cfg domain.Config, opts ...laplace.Option) (*domain.Report, error)

// Server exposes the solver as an MCP Server.
type Server struct {
	solve     Solver
	base      domain.Config
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server. base supplies the values tool arguments do not set.
func NewServer(base domain.Config, solve Solver) *Server {
	if solve == nil {
		solve = laplace.Solve
	}
	s := &Server{
		solve:     solve,
		base:      base,
		mcpServer: server.NewMCPServer("laplace-mcp", strings.TrimSpace(laplace.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func gridOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("rows", mcp.Description("Global interior rows (must divide by workers)")),
		mcp.WithNumber("cols", mcp.Description("Global interior columns")),
		mcp.WithNumber("workers", mcp.Description("Number of workers")),
	}
}

func (s *Server) registerTools() {
	// TOOL: solve
	solveOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Solve the steady-state heat equation on a plate and report convergence."),
		mcp.WithNumber("max_iterations", mcp.Required(), mcp.Description("Iteration cap")),
		mcp.WithNumber("threshold", mcp.Description("Convergence threshold on the maximum change")),
		mcp.WithNumber("max_temp", mcp.Description("Temperature of the bottom-right corner")),
		mcp.WithBoolean("gather", mcp.Description("Return the final temperature field")),
		mcp.WithOutputSchema[SolveResponse](),
	}, gridOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("solve", solveOpts...), mcp.NewStructuredToolHandler(s.handleSolve))

	// TOOL: partition
	partOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Show how the grid rows are split across workers."),
		mcp.WithOutputSchema[PartitionResponse](),
	}, gridOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("partition", partOpts...), mcp.NewStructuredToolHandler(s.handlePartition))
}

func (s *Server) config(args map[string]interface{}) (domain.Config, error) {
	cfg, err := config.Apply(s.base, args)
	if err != nil {
		return cfg, err
	}
	// The progress log goes to stderr of a server nobody reads.
	cfg.ProgressEvery = 0
	return cfg, cfg.Validate()
}

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SolveResponse, error) {
	cfg, err := s.config(args)
	if err != nil {
		return SolveResponse{}, err
	}
	if cfg.MaxIterations == 0 {
		return SolveResponse{}, fmt.Errorf("%w: max_iterations is required", domain.ErrInvalidIterations)
	}
	// Validate guarantees positive dimensions; dividing keeps the product from overflowing.
	if cfg.Rows > maxToolCells || cfg.Cols > maxToolCells/cfg.Rows {
		return SolveResponse{}, fmt.Errorf("%w: %d x %d grid exceeds the tool limit of %d cells",
			domain.ErrInvalidConfig, cfg.Rows, cfg.Cols, maxToolCells)
	}

	report, err := s.solve(ctx, cfg)
	if err != nil {
		return SolveResponse{}, fmt.Errorf("solve failed: %w", err)
	}
	return SolveResponse{
		Outcome:     report.Outcome.String(),
		Iterations:  report.Iterations,
		GlobalDelta: report.GlobalDelta,
		ElapsedMS:   float64(report.Elapsed.Microseconds()) / 1000,
		Field:       report.Field,
	}, nil
}

func (s *Server) handlePartition(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PartitionResponse, error) {
	cfg, err := s.config(args)
	if err != nil {
		return PartitionResponse{}, err
	}
	parts, err := domain.Partitions(cfg)
	if err != nil {
		return PartitionResponse{}, err
	}
	return PartitionResponse{LocalRows: cfg.LocalRows(), Partitions: parts}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: laplace://config
	s.mcpServer.AddResource(mcp.NewResource("laplace://config", "Default Solver Configuration",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(s.base)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "laplace://config",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
