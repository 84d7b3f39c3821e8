package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/foodbuddy/backend/config"
	"github.com/foodbuddy/backend/internal/app"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	usageContext string
)

var rootCmd = &cobra.Command{
	Use:   "foodbuddy",
	Short: "Ingredient analysis from the command line",
	Long: `foodbuddy analyzes food ingredient lists with the same pipeline as the
FoodBuddy API. Configuration comes from config.yaml and FOODBUDDY_* variables.

Example usage:
  foodbuddy analyze "Sugar, Palm Oil, Red 40"
  foodbuddy analyze --context kids < label.txt
  foodbuddy compare "Oats, Honey" "Sugar, Corn Syrup, Red 40"
  foodbuddy mcp                     # serve tools over stdio`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// stdout carries command output (and the MCP protocol)
		log.SetOutput(os.Stderr)
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	rootCmd.PersistentFlags().StringVarP(&usageContext, "context", "c", "general", "usage context: general, kids, athlete or vegan")
}

// loadApp loads configuration and wires the services
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

// ingredientsArg returns the joined args, or stdin when no args are given or the arg is "-"
func ingredientsArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
