package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomworks/loom-cli/internal/core/domain"
	"github.com/loomworks/loom-cli/internal/core/services"
)

var (
	searchLimit   int
	searchOffset  int
	searchJSON    bool
	searchLexical bool
	searchFrame   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the vault",
	Long: `Performs hybrid search across all imported documents.
Combines keyword and semantic (vector) scores with Reciprocal Rank Fusion;
with embeddings disabled only the keyword score applies. Identical vault
state and query always produce the identical ordering.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchLexical, "lexical", false, "keyword search only")
	searchCmd.Flags().BoolVar(&searchFrame, "frame", false, "output results as a canonical frame")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if err := ensureServices(); err != nil {
		return err
	}
	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:   searchLimit,
		Offset:  searchOffset,
		Lexical: searchLexical,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	switch {
	case searchFrame:
		return outputSearchFrame(cmd, query, results)
	case searchJSON:
		return outputSearchJSON(cmd, results)
	default:
		return outputSearchTable(cmd, results)
	}
}

func outputSearchFrame(cmd *cobra.Command, query string, results []domain.SearchResult) error {
	text, err := services.BuildResultFrame(query, results)
	if err != nil {
		return fmt.Errorf("failed to build frame: %w", err)
	}
	cmd.Println(text)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Document.Title
		if title == "" {
			title = results[i].Document.ID
		}

		snippet := ""
		if len(results[i].Highlights) > 0 {
			snippet = results[i].Highlights[0]
		}

		cmd.Printf("  [%d] %s (%.4f)\n", i+1, title, results[i].Score)
		cmd.Printf("      %s\n", results[i].Document.SourcePath)
		if snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}
