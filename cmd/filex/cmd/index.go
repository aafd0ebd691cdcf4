package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Muxite/filex/internal/app"
	"github.com/Muxite/filex/internal/ferrors"
	"github.com/Muxite/filex/internal/output"
	"github.com/Muxite/filex/internal/preflight"
)

func newIndexCmd() *cobra.Command {
	var (
		force       bool
		noRecursive bool
		extensions  []string
		modelName   string
	)

	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Index a directory or file into its .filex repository",
		Long: `Walks a directory (or indexes a single file), extracting text,
chunking it, and embedding the chunks into the local vector index. A
.filex repository is created at the target if one doesn't already exist.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && force {
				return runReindexAll(cmd)
			}
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			return runIndex(cmd, path, !noRecursive, force, extensions)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Reindex files even if unchanged")
	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "Only index the top-level directory")
	cmd.Flags().StringSliceVar(&extensions, "extensions", nil, "Restrict indexing to these extensions (e.g. --extensions .txt,.png)")
	cmd.Flags().StringVar(&modelName, "model", "", "Embedding model name (unused by the built-in static embedders)")

	return cmd
}

// runReindexAll force-reindexes every file under the work tree of the
// repository found from the current directory, whether or not it was indexed
// before; files no handler recognizes are walked and recorded as skipped.
// Like `filex index --force <path>`, it bypasses change detection.
func runReindexAll(cmd *cobra.Command) error {
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

	result, err := a.Manager.ReindexAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindex all: %w", err)
	}
	if err := a.Save(); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	out.Success(fmt.Sprintf("Reindexed %d file(s), skipped %d, %d error(s)",
		len(result.Indexed), len(result.Skipped), len(result.Errors)))

	if len(result.Errors) > 0 {
		var messages []string
		for path, msg := range result.Errors {
			messages = append(messages, fmt.Sprintf("%s: %s", path, msg))
		}
		out.Warning(strings.Join(messages, "\n"))
	}

	return nil
}

func runIndex(cmd *cobra.Command, path string, recursive, force bool, extensions []string) error {
	out := output.New(cmd.OutOrStdout())

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("access path: %w", err)
	}

	repoRoot := absPath
	if !info.IsDir() {
		repoRoot = filepath.Dir(absPath)
	}

	checker := preflight.New(preflight.WithOutput(cmd.OutOrStdout()))
	results := checker.RunAll(cmd.Context(), repoRoot)
	if checker.HasCriticalFailures(results) {
		checker.PrintResults(results)
		return ferrors.Internal("preflight checks failed", nil)
	}

	a, err := app.Open(repoRoot, true)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	defer a.Close()

	ctx := cmd.Context()

	if !info.IsDir() {
		result, err := a.Manager.IndexFile(ctx, absPath, force)
		if err != nil {
			return fmt.Errorf("index file: %w", err)
		}
		if err := a.Save(); err != nil {
			return fmt.Errorf("save index: %w", err)
		}
		if result.Indexed {
			out.Success(fmt.Sprintf("Indexed %s", result.FilePath))
		} else {
			out.Status("", fmt.Sprintf("Skipped %s (%s)", result.FilePath, result.Reason))
		}
		return nil
	}

	result, err := a.Manager.IndexDirectory(ctx, absPath, recursive, force, extensions)
	if err != nil {
		return fmt.Errorf("index directory: %w", err)
	}
	if err := a.Save(); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	out.Success(fmt.Sprintf("Indexed %d file(s), skipped %d, %d error(s)",
		len(result.Indexed), len(result.Skipped), len(result.Errors)))

	if len(result.Errors) > 0 {
		var messages []string
		for path, msg := range result.Errors {
			messages = append(messages, fmt.Sprintf("%s: %s", path, msg))
		}
		out.Warning(strings.Join(messages, "\n"))
	}

	return nil
}
