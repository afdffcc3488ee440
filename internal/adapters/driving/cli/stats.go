package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:         "stats",
	Short:       "Show statistics about your documents",
	Args:        cobra.NoArgs,
	Annotations: engineAnnotation,
	RunE:        runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	ownerID, err := resolveOwner(cmd.Context())
	if err != nil {
		return err
	}

	stats, err := statsService.Aggregate(cmd.Context(), ownerID)
	if err != nil {
		return fmt.Errorf("failed to aggregate stats: %w", err)
	}

	switch statsFormat {
	case "json":
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(stats)
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Print(string(data))
	case "table", "":
		printStatsTable(cmd, stats)
	default:
		return fmt.Errorf("unknown format %q: use table, json or yaml", statsFormat)
	}
	return nil
}

func printStatsTable(cmd *cobra.Command, stats *domain.UserStats) {
	cmd.Println(titleStyle.Render("Document statistics"))
	cmd.Printf("  %s %d\n", labelStyle.Render("Chunks:         "), stats.TotalDocs)
	cmd.Printf("  %s %d\n", labelStyle.Render("Characters:     "), stats.TotalChars)
	cmd.Printf("  %s %d\n", labelStyle.Render("Average length: "), stats.AvgDocLength)

	if len(stats.DocTypes) > 0 {
		types := make([]string, 0, len(stats.DocTypes))
		for t := range stats.DocTypes {
			types = append(types, t)
		}
		sort.Strings(types)
		cmd.Println(labelStyle.Render("  File types:"))
		for _, t := range types {
			cmd.Printf("    %-10s %d\n", t, stats.DocTypes[t])
		}
	}

	if !stats.Consistent() {
		cmd.Println(warnStyle.Render(fmt.Sprintf(
			"  Counters drifted: user reports %d chunks, %d chars",
			stats.DocumentCount, stats.TotalCharacters)))
	}
}
