package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"FinCast/internal/services/regression"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported model names",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range regression.ModelNames() {
			if _, err := fmt.Fprintln(out, name); err != nil {
				return err
			}
		}
		return nil
	},
}
