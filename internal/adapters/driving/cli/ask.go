package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Retrieves the most relevant chunks and asks the configured LLM to answer
from them. Without an LLM the answer falls back to the retrieved text.`,
	Args:        cobra.ExactArgs(1),
	Annotations: engineAnnotation,
	RunE:        runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askSources, "sources", false, "list the ranked chunks used as context")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ownerID, err := resolveOwner(cmd.Context())
	if err != nil {
		return err
	}

	answer, err := queryService.Ask(cmd.Context(), ownerID, args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Response)
	cmd.Println()
	if answer.FromDocuments {
		cmd.Println(successStyle.Render(answer.SourceInfo))
	} else {
		cmd.Println(warnStyle.Render(answer.SourceInfo))
	}

	if askSources && len(answer.Matches) > 0 {
		cmd.Println()
		for i := range answer.Matches {
			m := &answer.Matches[i]
			cmd.Println(mutedStyle.Render(fmt.Sprintf("  [%d] %s #%d (%.2f)",
				i+1, m.DisplayName(), m.Metadata.ChunkIndex, m.CombinedScore)))
		}
	}
	return nil
}
