package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Muxite/filex/internal/app"
	"github.com/Muxite/filex/internal/output"
)

var inlineCountPattern = regexp.MustCompile(`(?:^|\s)(?:-count|--count|--c)\s+(\d+)\s*$`)

func newSearchCmd() *cobra.Command {
	var (
		count         int
		modelName     string
		includeImages bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the repository's vector index for similar content",
		Long: `Embeds the query and returns the chunks whose embeddings are
closest to it by cosine similarity. The query string may carry an inline
-count N / --count N / --c N token; the --count flag wins if both are given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, inlineCount := extractInlineCount(args[0])
			topK := count
			if !cmd.Flags().Changed("count") && inlineCount > 0 {
				topK = inlineCount
			}
			if topK <= 0 {
				topK = 10
			}
			return runSearch(cmd, query, topK, includeImages)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Number of results to return (default 10)")
	cmd.Flags().StringVar(&modelName, "model", "", "Embedding model name (unused by the built-in static embedders)")
	cmd.Flags().BoolVar(&includeImages, "images", true, "Also search the image index via cross-modal query embedding")

	return cmd
}

// extractInlineCount strips a trailing -count/--count/--c token from a
// search query and returns the cleaned query alongside the parsed value
// (0 if none was present).
func extractInlineCount(query string) (string, int) {
	match := inlineCountPattern.FindStringSubmatch(query)
	if match == nil {
		return query, 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return query, 0
	}
	cleaned := strings.TrimSpace(inlineCountPattern.ReplaceAllString(query, ""))
	return cleaned, n
}

func runSearch(cmd *cobra.Command, query string, topK int, includeImages bool) error {
	out := output.New(cmd.OutOrStdout())

	wd, err := workingDir()
	if err != nil {
		return err
	}

	a, err := app.Open(wd, false)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	defer a.Close()

	results, err := a.Search(cmd.Context(), query, topK, includeImages)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(results) == 0 {
		out.Status("", "No results found")
		return nil
	}

	for i, r := range results {
		out.Statusf("", "%d. [%s] %s (chunk %d, score %.4f)", i+1, r.Kind, r.FilePath, r.ChunkIndex, r.Score)
		if r.ChunkText != "" {
			out.Code(r.ChunkText)
		}
	}

	return nil
}
