package main

import (
	"github.com/foodbuddy/backend/internal/mcptools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis tools over MCP (stdio)",
	Long: `Start an MCP server on stdin/stdout exposing analyze_ingredients and
compare_products. Logs go to stderr when --verbose is set.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	return server.ServeStdio(mcptools.NewServer(a.Analysis, a.Compare))
}
