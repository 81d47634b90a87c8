package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stimulus-ml/onboard/internal/scenes"
	"github.com/stimulus-ml/onboard/internal/script"
)

func init() {
	rootCmd.AddCommand(scenesCmd)
}

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List the tutorial scenes in play order",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := scenes.Load()
		if err != nil {
			return err
		}

		rows := make([][]string, len(loaded))
		for i, scene := range loaded {
			rows[i] = []string{
				fmt.Sprintf("%d", i+1),
				scene.Name,
				scene.Title,
				fmt.Sprintf("%d steps, %d commands", len(scene.Steps), countCommands(scene)),
			}
		}
		return writeTable(cmd.OutOrStdout(), []string{"#", "SCENE", "TITLE", "SCRIPT"}, rows)
	},
}

func countCommands(scene *script.Scene) int {
	n := 0
	for _, step := range scene.Steps {
		if _, ok := step.(script.Terminal); ok {
			n++
		}
	}
	return n
}
