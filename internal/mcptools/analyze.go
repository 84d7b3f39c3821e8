package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

// AnalyzeTool handles the analyze_ingredients MCP tool.
type AnalyzeTool struct {
	analyzer Analyzer
}

// NewAnalyzeTool creates an AnalyzeTool backed by analyzer.
func NewAnalyzeTool(analyzer Analyzer) *AnalyzeTool {
	return &AnalyzeTool{analyzer: analyzer}
}

// Definition returns the MCP tool definition for analyze_ingredients.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_ingredients",
		mcp.WithDescription(
			"Analyze a food product's ingredient list: health score, risks with plain-language explanations, "+
				"composition breakdown, diet compatibility, ingredient spotlight and healthier alternatives.",
		),
		mcp.WithString("ingredients",
			mcp.Required(),
			mcp.Description("Ingredient list as printed on the label, comma separated"),
		),
		mcp.WithString("context",
			mcp.Description("Who the product is for: general (default), kids, athlete or vegan"),
		),
	)
}

// Handle processes the analyze_ingredients tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ingredients := req.GetString("ingredients", "")
	if strings.TrimSpace(ingredients) == "" {
		return mcp.NewToolResultError("'ingredients' is required"), nil
	}

	result, err := t.analyzer.Analyze(ctx, &domain.AnalyzeRequest{
		Ingredients: ingredients,
		Context:     req.GetString("context", ""),
	})
	if err != nil {
		return toolError(err), nil
	}

	return mcp.NewToolResultText(renderAnalysis(result)), nil
}

func renderAnalysis(r *domain.AnalysisResult) string {
	a := r.Result
	var sb strings.Builder

	if a.IsInvalid() {
		sb.WriteString("## Not a food ingredient list\n\n")
		if a.Summary != "" {
			sb.WriteString(a.Summary + "\n")
		}
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("## %s\n\n", a.Intent))
	sb.WriteString(fmt.Sprintf("- **Health score**: %d/100\n", r.HealthScore))
	if r.CleanLabel {
		sb.WriteString("- **Clean label**: yes\n")
	}
	if a.Breakdown != nil {
		sb.WriteString(fmt.Sprintf("- **Composition**: %d%% natural, %d%% processed, %d%% additives\n",
			a.Breakdown.Natural, a.Breakdown.Processed, a.Breakdown.Additives))
	}

	if len(a.Risks) > 0 {
		sb.WriteString("\n### Risks\n\n")
		for i, risk := range a.Risks {
			severity := ""
			if i < len(r.Severities) {
				severity = fmt.Sprintf(" (%s)", r.Severities[i])
			}
			sb.WriteString(fmt.Sprintf("- **%s**%s: %s\n", risk.Title, severity, risk.Description))
			if risk.SimpleExplanation != "" {
				sb.WriteString(fmt.Sprintf("  - %s\n", risk.SimpleExplanation))
			}
		}
	}

	if len(a.Tradeoffs) > 0 {
		sb.WriteString("\n### Trade-offs\n\n")
		for _, t := range a.Tradeoffs {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", t.Title, t.Description))
		}
	}

	if len(a.Dietary) > 0 {
		sb.WriteString("\n### Diet check\n\n")
		for _, d := range a.Dietary {
			line := fmt.Sprintf("- %s: %s", d.Name, d.Status)
			if d.Reason != "" {
				line += " (" + d.Reason + ")"
			}
			sb.WriteString(line + "\n")
		}
	}

	if len(a.Spotlight) > 0 {
		sb.WriteString("\n### Spotlight\n\n")
		for _, s := range a.Spotlight {
			sb.WriteString(fmt.Sprintf("- **%s** [%s]: %s\n", s.Name, s.Type, s.Description))
		}
	}

	if len(a.Alternatives) > 0 {
		sb.WriteString("\n### Alternatives\n\n")
		for _, alt := range a.Alternatives {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", alt.Title, alt.Description))
		}
	}

	if a.Summary != "" {
		sb.WriteString("\n" + a.Summary + "\n")
	}
	if a.Disclaimer != "" {
		sb.WriteString("\n_" + a.Disclaimer + "_\n")
	}
	return sb.String()
}
