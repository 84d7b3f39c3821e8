package main

import (
	"github.com/foodbuddy/backend/internal/domain"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <product-a> <product-b>",
	Short: "Compare two ingredient lists",
	Long: `Analyze two ingredient lists side by side and print the comparison as JSON.

Examples:
  foodbuddy compare "Oats, Honey" "Sugar, Corn Syrup, Red 40"`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Compare.Compare(cmd.Context(), &domain.CompareRequest{
		ProductA: args[0],
		ProductB: args[1],
		Context:  usageContext,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}
