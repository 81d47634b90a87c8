package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stimulus-ml/onboard/internal/content"
	"github.com/stimulus-ml/onboard/internal/engine"
	"github.com/stimulus-ml/onboard/internal/gateway"
	"github.com/stimulus-ml/onboard/internal/progress"
	"github.com/stimulus-ml/onboard/internal/scenes"
	"github.com/stimulus-ml/onboard/internal/script"
	"github.com/stimulus-ml/onboard/internal/tui"
)

var (
	playFromStart bool
	playScene     string
	playScripts   string
)

func init() {
	playCmd.Flags().BoolVar(&playFromStart, "from-start", false, "play every scene, ignoring recorded progress")
	playCmd.Flags().StringVar(&playScene, "scene", "", "play a single scene by name")
	playCmd.Flags().StringVar(&playScripts, "scripts", "", "load scenes from a directory (scripts/ and assets/) instead of the built-in tour")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the onboarding tutorial",
	Long:  "Play the onboarding tutorial, resuming at the first scene not yet completed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd.Context())
	},
}

func runPlay(ctx context.Context) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "the tutorial requires an interactive terminal",
			Hint:     "run from a TTY without --non-interactive",
			NextStep: "onboard status",
		}
	}

	all, err := loadScenes()
	if err != nil {
		return err
	}

	cfg := GetConfig()

	store, err := progress.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("open progress store: %w", err)
	}
	defer store.Close()

	toPlay, err := selectScenes(ctx, all, store)
	if err != nil {
		return err
	}
	if len(toPlay) == 0 {
		fmt.Fprintln(rootCmd.OutOrStdout(), "All scenes completed. Use --from-start to replay, or onboard reset to clear progress.")
		return nil
	}

	return tui.Run(tui.Options{
		Scenes: toPlay,
		Runner: gateway.NewRunner(cfg.CommandTimeout, cfg.SlowCommandTimeout),
		Timing: engine.Timing{
			TypeInterval:      cfg.TypingInterval,
			FastInterval:      cfg.FastInterval,
			NarrativePause:    cfg.NarrativePause,
			AnimationInterval: cfg.AnimationInterval,
		},
		Progress: store,
		Theme:    cfg.Theme,
	})
}

// loadScenes returns the built-in tour, or the scenes under the
// --scripts directory when one is given. A custom directory mirrors
// the built-in layout: scripts/*.yaml plus an assets/ tree.
func loadScenes() ([]*script.Scene, error) {
	if playScripts == "" {
		return scenes.Load()
	}

	resolver := content.NewResolver(os.DirFS(filepath.Join(playScripts, "assets")), nil)
	loaded, err := script.LoadDir(filepath.Join(playScripts, "scripts"), resolver)
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("no scene scripts found under %s", filepath.Join(playScripts, "scripts"))
	}
	return loaded, nil
}

// selectScenes applies the --scene and --from-start flags, defaulting
// to resuming at the first scene without a recorded completion.
func selectScenes(ctx context.Context, all []*script.Scene, store *progress.Store) ([]*script.Scene, error) {
	if playScene != "" {
		for _, scene := range all {
			if scene.Name == playScene {
				return []*script.Scene{scene}, nil
			}
		}
		return nil, fmt.Errorf("unknown scene %q, see onboard scenes", playScene)
	}

	if playFromStart {
		return all, nil
	}

	completed, err := store.Completions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	for i, scene := range all {
		if _, ok := completed[scene.Name]; !ok {
			return all[i:], nil
		}
	}
	return nil, nil
}
