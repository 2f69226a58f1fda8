// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "alphaautos",
	Short: "AlphaAutos is a web-based dealership management tool",
	Long: `AlphaAutos is a web-based dealership management tool
that provides an easy-to-use interface for managing dealerships,
vehicle inventory, brands, employees, buyers, sales, insurers,
policies and maintenance records.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
