package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stimulus-ml/onboard/internal/progress"
	"github.com/stimulus-ml/onboard/internal/scenes"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tutorial progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := scenes.Load()
		if err != nil {
			return err
		}

		store, err := progress.Open(GetConfig().DatabasePath())
		if err != nil {
			return fmt.Errorf("open progress store: %w", err)
		}
		defer store.Close()

		completed, err := store.Completions(cmd.Context())
		if err != nil {
			return fmt.Errorf("read progress: %w", err)
		}

		rows := make([][]string, 0, len(loaded))
		done := 0
		for _, scene := range loaded {
			when := "-"
			if c, ok := completed[scene.Name]; ok {
				when = c.CompletedAt.Local().Format("2006-01-02 15:04")
				done++
			}
			rows = append(rows, []string{scene.Name, scene.Title, formatYesNo(when != "-"), when})
		}

		out := cmd.OutOrStdout()
		if err := writeTable(out, []string{"SCENE", "TITLE", "DONE", "COMPLETED AT"}, rows); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d of %d scenes completed.\n", done, len(loaded))
		return nil
	},
}
