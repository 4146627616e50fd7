// Command karaar analyses legal documents and explains them in plain
// language for workers in India.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/karaar-labs/karaar/internal/adapters/driven/ai"
	configfile "github.com/karaar-labs/karaar/internal/adapters/driven/config/file"
	indexmem "github.com/karaar-labs/karaar/internal/adapters/driven/index/memory"
	"github.com/karaar-labs/karaar/internal/adapters/driven/storage/sqlite"
	"github.com/karaar-labs/karaar/internal/adapters/driving/cli"
	"github.com/karaar-labs/karaar/internal/chunker"
	"github.com/karaar-labs/karaar/internal/core/ports/driven"
	"github.com/karaar-labs/karaar/internal/core/services"
	"github.com/karaar-labs/karaar/internal/extractors"
	"github.com/karaar-labs/karaar/internal/extractors/docx"
	"github.com/karaar-labs/karaar/internal/extractors/pdf"
	"github.com/karaar-labs/karaar/internal/extractors/plaintext"
	"github.com/karaar-labs/karaar/internal/logger"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	configDir, err := configfile.DefaultConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	settings, err := configfile.LoadSettings(configDir)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	capabilities := ai.Init(ctx, settings)
	defer capabilities.Close()
	for _, warning := range capabilities.Warnings {
		logger.Warn("%s", warning)
	}

	store, err := sqlite.NewStore(configDir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	registry := extractors.NewRegistry(
		plaintext.New(),
		pdf.New(),
		docx.New(),
	)

	splitter := chunker.New(
		chunker.WithChunkSize(settings.Analysis.ChunkSize),
		chunker.WithOverlap(settings.Analysis.ChunkOverlap),
	)

	analysis := services.NewAnalysisService(
		capabilities.Generator,
		capabilities.WebSearch,
		settings.Analysis,
	)
	qa := services.NewQAService(
		capabilities.Generator,
		capabilities.Embedding,
		settings.Analysis,
	)

	sessionService := services.NewSessionService(
		store,
		registry,
		splitter,
		analysis,
		qa,
		capabilities.Embedding,
		func() driven.VectorIndex { return indexmem.New() },
	)
	defer sessionService.Close()

	cli.SetDemystifyService(sessionService)
	cli.SetConfig(configDir, settings)
	cli.SetVersion(version)

	return cli.Execute()
}
