package main

import (
	"github.com/foodbuddy/backend/internal/domain"
	"github.com/spf13/cobra"
)

var saveAnalysis bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ingredients...]",
	Short: "Analyze an ingredient list",
	Long: `Analyze an ingredient list and print the enriched result as JSON.

Examples:
  foodbuddy analyze "Whole Wheat Flour, Sugar, Salt"
  foodbuddy analyze --save --context kids < label.txt`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&saveAnalysis, "save", false, "save the result to history")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ingredients, err := ingredientsArg(cmd, args)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Analysis.Analyze(cmd.Context(), &domain.AnalyzeRequest{
		Ingredients: ingredients,
		Context:     usageContext,
		Save:        saveAnalysis,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}
