package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stimulus-ml/onboard/internal/progress"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear recorded tutorial progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := progress.Open(GetConfig().DatabasePath())
		if err != nil {
			return fmt.Errorf("open progress store: %w", err)
		}
		defer store.Close()

		if err := store.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress cleared.")
		return nil
	},
}
