package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch and normalise the support FAQ",
	Long: `Fetches the configured support pages, normalises the first usable
one into question/answer pairs and writes the FAQ artefact. Run this
before indexing.`,
	RunE: runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	h := harvester
	locators := harvestLocators
	if h == nil {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, cleanup, err := buildHarvester(cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		h = svc
		locators = cfg.Harvest.URLs
	}

	doc, err := h.Harvest(cmd.Context(), locators)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}

	cmd.Printf("Harvested %d questions across %d sections.\n", doc.PairCount(), len(doc.Sections))
	return nil
}

// harvestLocators is set alongside the injected harvester in tests.
var harvestLocators []string
