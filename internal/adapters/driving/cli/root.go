// Package cli implements the loom command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/loomworks/loom-cli/internal/adapters/driven/clock"
	"github.com/loomworks/loom-cli/internal/adapters/driven/embedding/local"
	"github.com/loomworks/loom-cli/internal/adapters/driven/index/chromem"
	"github.com/loomworks/loom-cli/internal/adapters/driven/storage/fs"
	"github.com/loomworks/loom-cli/internal/adapters/driven/storage/sqlite"
	"github.com/loomworks/loom-cli/internal/config"
	"github.com/loomworks/loom-cli/internal/core/ports/driving"
	"github.com/loomworks/loom-cli/internal/core/services"
	"github.com/loomworks/loom-cli/internal/logger"
	"github.com/loomworks/loom-cli/internal/normalisers/markdown"
	"github.com/loomworks/loom-cli/internal/normalisers/plaintext"
	"github.com/loomworks/loom-cli/internal/postprocessors/chunker"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

// Services are wired lazily by ensureServices; tests inject their own.
var (
	vaultService  driving.VaultService
	searchService driving.SearchService
	closers       []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Content-addressed document vault with hybrid retrieval",
	Long: `Loom imports documents into a content-addressed vault, chunks them
deterministically and serves hybrid (keyword + vector) retrieval. Results
and conversation state travel as canonical frames.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ensureServices wires the production dependency graph on first use.
// Commands that never touch the vault (version, frame) skip this.
func ensureServices() error {
	if vaultService != nil && searchService != nil {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.TestMode {
		logger.SetVerbose(true)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".loom")
	}

	objectStore, err := fs.NewObjectStore(filepath.Join(dataDir, "objects"))
	if err != nil {
		return fmt.Errorf("open object store: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(dataDir, "data"))
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}
	closers = append(closers, store)

	vectorIndex := chromem.New(filepath.Join(dataDir, "vectors"), cfg.EmbeddingsEnabled)
	closers = append(closers, vectorIndex)

	embedder := local.New(cfg.EmbeddingDims, cfg.Seed)
	clk := clock.FromConfig(cfg)

	vault := services.NewVaultService(
		objectStore,
		store.DocumentStore(),
		store.SearchEngine(),
		vectorIndex,
		embedder,
		clk,
		chunker.New(
			chunker.WithChunkSize(cfg.ChunkSize),
			chunker.WithOverlap(cfg.ChunkOverlap),
		),
	)
	vault.RegisterNormaliser(plaintext.New())
	vault.RegisterNormaliser(markdown.New())

	vaultService = vault
	searchService = services.NewSearchService(
		store.DocumentStore(),
		store.SearchEngine(),
		vectorIndex,
		embedder,
	)

	return nil
}

// closeServices releases everything ensureServices opened.
func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Warn("Close failed: %v", err)
		}
	}
	closers = nil
}
