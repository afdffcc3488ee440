package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload documents",
	Long: `Extracts text from each file, splits it into overlapping chunks, and
stores the chunks that are not already present for the user.`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: engineAnnotation,
	RunE:        runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}

	ownerID, err := resolveOwner(cmd.Context())
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range args {
		if err := uploadOne(cmd, ownerID, path); err != nil {
			failed++
			cmd.PrintErrln(errorStyle.Render(fmt.Sprintf("  %s: %v", path, err)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}

func uploadOne(cmd *cobra.Command, ownerID, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	result, err := uploadService.Upload(cmd.Context(), ownerID, filepath.Base(path), content)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateDocument) {
			cmd.Println(mutedStyle.Render(fmt.Sprintf("  %s: already stored", path)))
			return nil
		}
		return err
	}

	cmd.Printf("  %s %s: %d chunks stored (%d duplicate, %d failed), %d chars\n",
		successStyle.Render("✓"), path,
		result.ChunksCreated,
		result.Count(domain.ChunkDuplicate),
		result.Count(domain.ChunkFailed),
		result.TextLength)
	return nil
}
