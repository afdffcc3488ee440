package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// previewChars bounds the text shown under each search result.
const previewChars = 160

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search your documents",
	Long: `Performs hybrid search across your stored chunks.
Combines vector similarity with keyword counts to rank results.`,
	Args:        cobra.ExactArgs(1),
	Annotations: engineAnnotation,
	RunE:        runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if queryService == nil {
		return errors.New("query service not configured")
	}

	ownerID, err := resolveOwner(cmd.Context())
	if err != nil {
		return err
	}

	results, err := queryService.Retrieve(cmd.Context(), ownerID, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

type searchResultJSON struct {
	RecordID      string   `json:"record_id"`
	Filename      string   `json:"filename"`
	ChunkIndex    int      `json:"chunk_index"`
	Similarity    float64  `json:"similarity"`
	KeywordScore  int      `json:"keyword_score"`
	CombinedScore float64  `json:"combined_score"`
	MatchedWords  []string `json:"matched_words"`
	Text          string   `json:"text"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RankedMatch) error {
	out := make([]searchResultJSON, 0, len(results))
	for i := range results {
		r := &results[i]
		out = append(out, searchResultJSON{
			RecordID:      r.RecordID,
			Filename:      r.DisplayName(),
			ChunkIndex:    r.Metadata.ChunkIndex,
			Similarity:    r.Similarity,
			KeywordScore:  r.KeywordScore,
			CombinedScore: r.CombinedScore,
			MatchedWords:  r.MatchedWords,
			Text:          r.Text,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RankedMatch) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println(titleStyle.Render("Results:"))
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s #%d (%.2f)\n", i+1, r.DisplayName(), r.Metadata.ChunkIndex, r.CombinedScore)
		cmd.Println(mutedStyle.Render(fmt.Sprintf("      similarity %.3f, keywords %d %v",
			r.Similarity, r.KeywordScore, r.MatchedWords)))
		if preview := previewText(r.Text); preview != "" {
			cmd.Printf("      %s\n", preview)
		}
		cmd.Println()
	}
	return nil
}

// previewText flattens whitespace and cuts to previewChars runes.
func previewText(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= previewChars {
		return flat
	}
	return string(runes[:previewChars]) + "..."
}
