package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

// CompareTool handles the compare_products MCP tool.
type CompareTool struct {
	comparer Comparer
}

// NewCompareTool creates a CompareTool backed by comparer.
func NewCompareTool(comparer Comparer) *CompareTool {
	return &CompareTool{comparer: comparer}
}

// Definition returns the MCP tool definition for compare_products.
func (t *CompareTool) Definition() mcp.Tool {
	return mcp.NewTool("compare_products",
		mcp.WithDescription(
			"Compare two food products by their ingredient lists and pick the healthier one.",
		),
		mcp.WithString("product_a",
			mcp.Required(),
			mcp.Description("Ingredient list of the first product"),
		),
		mcp.WithString("product_b",
			mcp.Required(),
			mcp.Description("Ingredient list of the second product"),
		),
		mcp.WithString("context",
			mcp.Description("Who the products are for: general (default), kids, athlete or vegan"),
		),
	)
}

// Handle processes the compare_products tool call.
func (t *CompareTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	productA := req.GetString("product_a", "")
	productB := req.GetString("product_b", "")
	if strings.TrimSpace(productA) == "" || strings.TrimSpace(productB) == "" {
		return mcp.NewToolResultError("'product_a' and 'product_b' are required"), nil
	}

	result, err := t.comparer.Compare(ctx, &domain.CompareRequest{
		ProductA: productA,
		ProductB: productB,
		Context:  req.GetString("context", ""),
	})
	if err != nil {
		return toolError(err), nil
	}

	return mcp.NewToolResultText(renderComparison(result)), nil
}

func renderComparison(r *domain.CompareResult) string {
	c := r.Comparison
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Winner: %s\n\n", c.Winner))
	sb.WriteString(c.Insight + "\n\n")
	sb.WriteString("| | Product A | Product B |\n")
	sb.WriteString("|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Product | %s | %s |\n", r.ProductA.Intent, r.ProductB.Intent))
	sb.WriteString(fmt.Sprintf("| Health score | %d | %d |\n", c.ScoreA, c.ScoreB))
	sb.WriteString(fmt.Sprintf("| Complexity | %s | %s |\n", c.Complexity[0], c.Complexity[1]))
	sb.WriteString(fmt.Sprintf("| Risks | %d | %d |\n", len(r.ProductA.Risks), len(r.ProductB.Risks)))

	if len(c.BestFor.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("\n**%s is best for**: %s\n", c.BestFor.Winner, strings.Join(c.BestFor.Tags, ", ")))
	}
	return sb.String()
}
