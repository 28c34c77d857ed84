package cli

import (
	"bytes"
	"time"

	"github.com/loomworks/loom-cli/internal/adapters/driven/clock"
	"github.com/loomworks/loom-cli/internal/adapters/driven/embedding/local"
	"github.com/loomworks/loom-cli/internal/adapters/driven/index/lexical"
	"github.com/loomworks/loom-cli/internal/adapters/driven/index/vector"
	"github.com/loomworks/loom-cli/internal/adapters/driven/storage/memory"
	"github.com/loomworks/loom-cli/internal/core/services"
	"github.com/loomworks/loom-cli/internal/normalisers/markdown"
	"github.com/loomworks/loom-cli/internal/normalisers/plaintext"
	"github.com/loomworks/loom-cli/internal/postprocessors/chunker"
)

// setupTestServices swaps the package-level services for memory-backed
// ones. The returned cleanup restores the previous wiring.
func setupTestServices() func() {
	objects := memory.NewObjectStore()
	docs := memory.NewDocumentStore()
	engine := lexical.New()
	vectors := vector.New(true)
	embedder := local.New(8, 42)
	fixed := clock.Fixed{T: time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)}

	vault := services.NewVaultService(objects, docs, engine, vectors, embedder, fixed,
		chunker.New())
	vault.RegisterNormaliser(plaintext.New())
	vault.RegisterNormaliser(markdown.New())

	prevVault, prevSearch := vaultService, searchService
	vaultService = vault
	searchService = services.NewSearchService(docs, engine, vectors, embedder)

	return func() {
		vaultService, searchService = prevVault, prevSearch
	}
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
