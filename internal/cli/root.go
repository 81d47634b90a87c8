// Package cli implements the onboard command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stimulus-ml/onboard/internal/config"
	"github.com/stimulus-ml/onboard/internal/logging"
)

var (
	cfgFile        string
	nonInteractive bool

	loadedConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "onboard",
	Short:         "Interactive STIMULUS onboarding",
	Long:          "onboard plays the interactive STIMULUS tutorial in your terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		loadedConfig = cfg
		return logging.Setup(cfg.LogFile, cfg.LogLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/onboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail instead of launching the TUI")
}

// GetConfig returns the configuration loaded for the current invocation.
func GetConfig() *config.Config {
	return loadedConfig
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), formatError(err))
		return 1
	}
	return 0
}

func formatError(err error) string {
	if pf, ok := err.(*PreflightError); ok {
		return pf.Detailed()
	}
	return "Error: " + err.Error()
}
