package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avenhq/avenassist/internal/core/ports/driving"
)

var (
	flagTopK int
	flagJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the indexed FAQ",
	Long: `Retrieves the FAQ chunks most relevant to the question and
synthesises an answer grounded in them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&flagTopK, "top-k", "k", 0,
		"number of chunks to retrieve (default 5)")
	askCmd.Flags().BoolVar(&flagJSON, "json", false,
		"print the answer and its context as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	svc := askService
	if svc == nil {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if flagTopK == 0 && cfg.Ask.TopK > 0 {
			flagTopK = cfg.Ask.TopK
		}
		built, cleanup, err := buildAsker(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		svc = built
	}

	answer, err := svc.Ask(cmd.Context(), question, driving.AskOptions{TopK: flagTopK})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if flagJSON {
		out, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding answer: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Println(answer.Text)
	if !answer.Grounded {
		cmd.Println("\n(no supporting context was found for this answer)")
	}
	return nil
}
