package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:         "clear",
	Short:       "Delete all of your stored documents",
	Long:        `Deletes every chunk stored for the user and resets their counters.`,
	Args:        cobra.NoArgs,
	Annotations: engineAnnotation,
	RunE:        runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if userService == nil {
		return errors.New("user service not configured")
	}

	ownerID, err := resolveOwner(cmd.Context())
	if err != nil {
		return err
	}

	if !clearYes {
		cmd.Printf("Delete all documents for %s? [y/N]: ", ownerID)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	summary, err := userService.Clear(cmd.Context(), ownerID)
	if err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	cmd.Printf("Deleted %d chunks (%d characters)\n", summary.Records, summary.Characters)
	return nil
}
