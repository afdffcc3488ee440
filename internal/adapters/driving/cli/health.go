package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:         "health",
	Short:       "Check the store and AI providers",
	Args:        cobra.NoArgs,
	Annotations: engineAnnotation,
	RunE:        runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if healthService == nil {
		return errors.New("health service not configured")
	}

	status := healthService.Check(cmd.Context())
	printHealthLine(cmd, "Store:     ", status.Store, true)
	printHealthLine(cmd, "Embedding: ", status.Embedding, true)
	printHealthLine(cmd, "LLM:       ", status.LLM, false)

	if !status.Healthy() {
		return errors.New("docvault is unhealthy")
	}
	return nil
}

func printHealthLine(cmd *cobra.Command, label string, err error, required bool) {
	switch {
	case err == nil:
		cmd.Printf("  %s %s\n", labelStyle.Render(label), successStyle.Render("ok"))
	case required:
		cmd.Printf("  %s %s\n", labelStyle.Render(label), errorStyle.Render(err.Error()))
	default:
		cmd.Printf("  %s %s\n", labelStyle.Render(label), warnStyle.Render(err.Error()))
	}
}
