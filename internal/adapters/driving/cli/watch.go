package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/adapters/driving/watch"
	"github.com/custodia-labs/docvault/internal/core/domain"
)

var (
	watchInitialScan bool
	watchDebounce    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Upload files dropped into a directory",
	Long: `Watches a directory and uploads every supported file that is created or
changed there. Runs until interrupted.`,
	Args:        cobra.ExactArgs(1),
	Annotations: engineAnnotation,
	RunE:        runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", false, "upload files already in the directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a changed file is uploaded")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}

	ownerID, err := resolveOwner(cmd.Context())
	if err != nil {
		return err
	}

	opts := []watch.Option{
		watch.WithDebounce(watchDebounce),
		watch.WithHandler(func(e watch.Event) { printWatchEvent(cmd, e) }),
	}
	if watchInitialScan {
		opts = append(opts, watch.WithInitialScan())
	}
	w := watch.New(args[0], ownerID, uploadService, opts...)
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return w.Run(ctx)
}

func printWatchEvent(cmd *cobra.Command, e watch.Event) {
	switch {
	case e.Err == nil:
		cmd.Printf("  %s %s: %d chunks stored\n", successStyle.Render("✓"), e.Path, e.Result.ChunksCreated)
	case errors.Is(e.Err, domain.ErrDuplicateDocument):
		cmd.Println(mutedStyle.Render(fmt.Sprintf("  %s: already stored", e.Path)))
	default:
		cmd.PrintErrln(errorStyle.Render(fmt.Sprintf("  %s: %v", e.Path, e.Err)))
	}
}
