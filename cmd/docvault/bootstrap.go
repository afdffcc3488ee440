package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docvault/internal/adapters/driven/ai"
	"github.com/custodia-labs/docvault/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/mongodb"
	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docvault/internal/adapters/driving/cli"
	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/core/services"
	"github.com/custodia-labs/docvault/internal/extractors"
	"github.com/custodia-labs/docvault/internal/logger"
	"github.com/custodia-labs/docvault/internal/postprocessors/chunker"
)

// stores is the pair of persistence ports a backend provides.
type stores struct {
	records driven.RecordStore
	users   driven.UserStore
	close   func() error
}

// newBootstrap returns the function the CLI calls the first time a
// command needs the engine.
func newBootstrap(settingsSvc driving.SettingsService, configDir string) cli.BootstrapFunc {
	return func(ctx context.Context, opts cli.Options) (*cli.Services, error) {
		settings, err := settingsSvc.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		if opts.DataDir != "" {
			settings.Storage.DataDir = opts.DataDir
		}
		if err := settings.Retrieval.Validate(); err != nil {
			return nil, err
		}

		st, err := openStores(ctx, settings.Storage)
		if err != nil {
			return nil, err
		}

		aiResult, err := ai.Init(ctx, settings)
		if err != nil {
			_ = st.close()
			return nil, fmt.Errorf("embedding service: %w", err)
		}

		return wire(settings, st, aiResult, configDir), nil
	}
}

func wire(settings *domain.AppSettings, st *stores, aiResult *ai.InitResult, configDir string) *cli.Services {
	r := settings.Retrieval
	locks := services.NewOwnerLocks()
	stats := services.NewStatsService(st.records, st.users)

	upload := services.NewUploadService(
		extractors.NewDefaultRegistry(),
		chunker.New(chunker.WithChunkSize(r.ChunkSize), chunker.WithOverlap(r.ChunkOverlap)),
		aiResult.EmbeddingService,
		st.records,
		st.users,
		stats,
		locks,
	)

	query := services.NewQueryService(
		aiResult.EmbeddingService,
		services.NewLinearSearcher(st.records, r.MinSimilarity),
		aiResult.LLMService,
		r,
	)
	query.SetGenerationOptions(settings.LLM)
	if prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts")); err == nil {
		query.SetPromptStore(prompts)
	} else {
		logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
	}

	return &cli.Services{
		Upload:   upload,
		Query:    query,
		Stats:    stats,
		Users:    services.NewUserService(st.users, st.records, stats, locks),
		Health:   services.NewHealthService(st.records, aiResult.EmbeddingService, aiResult.LLMService),
		Warnings: aiResult.Warnings,
		Close: func() error {
			aiResult.Close()
			return st.close()
		},
	}
}

func openStores(ctx context.Context, cfg domain.StorageSettings) (*stores, error) {
	switch cfg.Backend {
	case domain.StorageMemory:
		return &stores{
			records: memory.NewRecordStore(),
			users:   memory.NewUserStore(),
			close:   func() error { return nil },
		}, nil
	case domain.StorageSQLite:
		s, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return &stores{records: s.RecordStore(), users: s.UserStore(), close: s.Close}, nil
	case domain.StorageMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("mongo backend selected but no URI configured")
		}
		s, err := mongodb.NewStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		return &stores{records: s.RecordStore(), users: s.UserStore(), close: s.Close}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
