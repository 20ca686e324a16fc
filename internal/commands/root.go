package commands

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fincast",
	Short: "Regression-based High/Low price forecasting",
	Long: `FinCast forecasts the High and Low series of a daily price table with a
regression model chosen by name, and reports the symmetric MAPE of each
series on a held-out tail.

Models: Linear Regression, K-Nearest Neighbors, Random Forest,
Gradient Boosting, XGBoost, Support Vector Machines, Extra Trees.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "config file path (empty for defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(modelsCmd)
}
