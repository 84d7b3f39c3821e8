// Package mcptools exposes ingredient analysis and product comparison as MCP
// tools.
//
// Each tool follows the same shape:
// - a struct holding the use case it calls, injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() runs the request and renders Markdown
//
// Use case failures are returned as tool errors, never as protocol errors.
package mcptools

import (
	"context"
	"errors"

	"github.com/foodbuddy/backend/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients
const Version = "1.0.0"

// Analyzer runs a single-product analysis
type Analyzer interface {
	Analyze(ctx context.Context, request *domain.AnalyzeRequest) (*domain.AnalysisResult, error)
}

// Comparer runs a two-product comparison
type Comparer interface {
	Compare(ctx context.Context, request *domain.CompareRequest) (*domain.CompareResult, error)
}

// NewServer registers the FoodBuddy tools on a new MCP server
func NewServer(analyzer Analyzer, comparer Comparer) *server.MCPServer {
	s := server.NewMCPServer(
		"foodbuddy",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	analyzeTool := NewAnalyzeTool(analyzer)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	compareTool := NewCompareTool(comparer)
	s.AddTool(compareTool.Definition(), compareTool.Handle)

	return s
}

// toolError converts a use case error into a message safe to show the model
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return mcp.NewToolResultError(err.Error())
	case errors.Is(err, domain.ErrUpstreamFailure), errors.Is(err, domain.ErrMalformedResponse):
		return mcp.NewToolResultError("analysis failed, please try again")
	default:
		return mcp.NewToolResultError("analysis failed: " + err.Error())
	}
}
