// Package cli provides the docvault command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/logger"
)

// EnvUser names the default owner when --user is not given.
const EnvUser = "DOCVAULT_USER"

// annotationEngine marks commands that need the storage and AI services.
const annotationEngine = "docvault.engine"

var engineAnnotation = map[string]string{annotationEngine: "true"}

// version is set at build time.
var version = "dev"

// Global flags.
var (
	userFlag    string
	verboseFlag bool
	dataDirFlag string
)

// Services wired by the bootstrap.
var (
	settingsService driving.SettingsService
	uploadService   driving.UploadService
	queryService    driving.QueryService
	statsService    driving.StatsService
	userService     driving.UserService
	healthService   driving.HealthService
	serviceWarnings []string
	closeServices   func() error
	bootstrap       BootstrapFunc
)

// Options carries global flag values into the bootstrap.
type Options struct {
	// DataDir overrides the configured storage directory when set.
	DataDir string
}

// Services holds the engine services a bootstrap produces.
type Services struct {
	Upload   driving.UploadService
	Query    driving.QueryService
	Stats    driving.StatsService
	Users    driving.UserService
	Health   driving.HealthService
	Warnings []string
	Close    func() error
}

// BootstrapFunc builds the engine services on first use.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "docvault",
	Short: "Ask questions about your own documents",
	Long: `docvault stores your documents as embedded chunks and answers questions
from them with hybrid (vector plus keyword) retrieval. When nothing relevant
is stored, answers fall back to general knowledge and say so.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user ID or email (default $"+EnvUser+")")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "override the storage directory")
}

// SetSettingsService injects the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetBootstrap registers the function that builds engine services.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs engine services directly.
func SetServices(s *Services) {
	if s == nil {
		uploadService, queryService, statsService = nil, nil, nil
		userService, healthService = nil, nil
		serviceWarnings, closeServices = nil, nil
		return
	}
	uploadService = s.Upload
	queryService = s.Query
	statsService = s.Stats
	userService = s.Users
	healthService = s.Health
	serviceWarnings = s.Warnings
	closeServices = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	err := rootCmd.Execute()
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			logger.Warn("Closing services: %v", cerr)
		}
	}
	return err
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)
	if cmd.Annotations[annotationEngine] != "true" {
		return nil
	}
	return ensureServices(cmd)
}

func ensureServices(cmd *cobra.Command) error {
	if uploadService != nil || bootstrap == nil {
		return nil
	}
	s, err := bootstrap(cmd.Context(), Options{DataDir: dataDirFlag})
	if err != nil {
		return fmt.Errorf("starting docvault: %w", err)
	}
	SetServices(s)
	for _, w := range serviceWarnings {
		cmd.PrintErrln(warnStyle.Render("Warning: " + w))
	}
	return nil
}

// resolveOwner returns the ID of the user named by --user or $DOCVAULT_USER.
func resolveOwner(ctx context.Context) (string, error) {
	if userService == nil {
		return "", errors.New("user service not configured")
	}
	ref := userFlag
	if ref == "" {
		ref = os.Getenv(EnvUser)
	}
	if ref == "" {
		return "", fmt.Errorf("no user selected: pass --user or set %s", EnvUser)
	}
	user, err := userService.Get(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolving user %q: %w", ref, err)
	}
	return user.ID, nil
}
