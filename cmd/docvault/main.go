// Command docvault stores personal documents and answers questions from them.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docvault/internal/adapters/driven/ai"
	"github.com/custodia-labs/docvault/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docvault/internal/adapters/driving/cli"
	"github.com/custodia-labs/docvault/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	configDir := filepath.Join(home, ".docvault")

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		os.Exit(1)
	}
	settings := services.NewSettingsService(configStore, ai.NewChecker(), home)
	cli.SetSettingsService(settings)
	cli.SetBootstrap(newBootstrap(settings, configDir))

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
