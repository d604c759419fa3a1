package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stock-analyzer",
	Short: "Rule-based bilingual equity research",
	Long: `stock-analyzer answers twenty fundamental, valuation, dividend, technical and sentiment
questions about a listed stock and turns them into a weighted Buy/Hold/Sell recommendation.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (defaults are used when empty)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing stock-analyzer CLI: %s\n", err)
		os.Exit(1)
	}
}
