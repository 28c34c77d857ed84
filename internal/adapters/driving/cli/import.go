package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/logger"
)

var importWatch bool

// importableExtensions mirrors the normalisers registered on the vault.
var importableExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".text":     true,
	".log":      true,
}

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import a file or directory into the vault",
	Long: `Imports documents into the content-addressed vault. Directories are
walked recursively; markdown and plain text files are normalised, chunked
and indexed. With --watch the path is re-imported whenever it changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "re-import on file changes")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	path := args[0]
	if err := importPath(cmd, path); err != nil {
		return err
	}

	if importWatch {
		return watchPath(cmd, path)
	}
	return nil
}

// importPath imports a single file or every importable file under a
// directory.
func importPath(cmd *cobra.Command, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return importFile(cmd, path)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !importableExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		return importFile(cmd, p)
	})
}

func importFile(cmd *cobra.Command, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc, chunks, err := vaultService.Import(cmd.Context(), path, raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		return fmt.Errorf("import %s: %w", path, err)
	}

	cmd.Printf("Imported %s (%d chunks) as %s\n", path, len(chunks), doc.ID)
	return nil
}

// watchPath blocks re-importing files under path on change until
// interrupted.
func watchPath(cmd *cobra.Command, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cmd.Printf("Watching %s for changes (interrupt to stop)\n", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !importableExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			if err := importFile(cmd, event.Name); err != nil {
				logger.Warn("Re-import failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if !errors.Is(err, context.Canceled) {
				logger.Warn("Watcher error: %v", err)
			}
		}
	}
}
