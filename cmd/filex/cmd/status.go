package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Muxite/filex/internal/app"
	"github.com/Muxite/filex/internal/output"
)

func newStatusCmd() *cobra.Command {
	var modelName string
	var list bool
	var extension string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show indexing status for the repository",
		Long:  `Reports how many files are indexed, how many are eligible but not yet indexed, and a breakdown by extension.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				return runStatusList(cmd, extension)
			}
			return runStatus(cmd)
		},
	}

	cmd.Flags().StringVar(&modelName, "model", "", "Embedding model name (unused by the built-in static embedders)")
	cmd.Flags().BoolVar(&list, "list", false, "List indexed file paths instead of summary counts")
	cmd.Flags().StringVar(&extension, "extension", "", "Restrict --list output to this extension (e.g. --extension .txt)")

	return cmd
}

func runStatus(cmd *cobra.Command) error {
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

	stats, err := a.Stats()
	if err != nil {
		return fmt.Errorf("get status: %w", err)
	}

	out.Successf("%d/%d eligible files indexed", stats.IndexedFilesCount, stats.EligibleFilesCount)
	out.Statusf("", "Text index: %d vectors (dim %d)", stats.TextIndex.VectorCount, stats.TextIndex.Dimensions)
	out.Statusf("", "Image index: %d vectors (dim %d)", stats.ImageIndex.VectorCount, stats.ImageIndex.Dimensions)
	out.Statusf("", "Storage: %d bytes", stats.StorageSizeBytes)

	if len(stats.FileTypes) > 0 {
		out.Newline()
		exts := make([]string, 0, len(stats.FileTypes))
		for ext := range stats.FileTypes {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		for _, ext := range exts {
			ft := stats.FileTypes[ext]
			out.Statusf("", "%s: %d file(s), %d chunk(s), %d byte(s)", ext, ft.Count, ft.TotalChunks, ft.TotalSize)
		}
	}

	return nil
}

func runStatusList(cmd *cobra.Command, extension string) error {
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

	entries, err := a.Manager.ListIndexedFiles(extension)
	if err != nil {
		return fmt.Errorf("list indexed files: %w", err)
	}

	if len(entries) == 0 {
		out.Status("", "No indexed files")
		return nil
	}

	for _, entry := range entries {
		out.Statusf("", "%s (%s, %d chunk(s))", entry.FilePath, entry.Kind, entry.ChunkCount)
	}

	return nil
}
