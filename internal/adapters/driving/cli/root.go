// Package cli implements the avenassist command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avenhq/avenassist/internal/adapters/driven/config"
	"github.com/avenhq/avenassist/internal/core/ports/driving"
	"github.com/avenhq/avenassist/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Normally wired from configuration on
// first use; tests inject fakes directly.
var (
	harvester         driving.Harvester
	indexOrchestrator driving.IndexOrchestrator
	askService        driving.AskService
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "avenassist",
	Short: "Support FAQ assistant for Aven",
	Long: `Avenassist harvests the Aven support FAQ, indexes it into a
vector database and answers customer questions grounded in the
retrieved content.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"config file path (default ~/.avenassist/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the configuration from the --config flag or the
// default location.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
