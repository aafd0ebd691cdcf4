package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Muxite/filex/internal/config"
	"github.com/Muxite/filex/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var port int
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API surface",
		Long:  `Starts the Gin-based HTTP server exposing indexing, search, and status over the endpoints described in the project's interface contract.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, port, watch)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from config, or 8787)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Watch the current directory and automatically reindex changed files")

	return cmd
}

func runServe(cmd *cobra.Command, port int, watch bool) error {
	wd, err := workingDir()
	if err != nil {
		return err
	}

	cfg, err := config.Load(wd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}
	if port == 0 {
		port = 8787
	}

	registryPath := filepath.Join(wd, "registered_folders.json")
	server, err := httpapi.New(registryPath, int64(cfg.Indexing.WorkerPoolSize))
	if err != nil {
		return fmt.Errorf("create http server: %w", err)
	}

	if watch {
		go func() {
			if err := runWatcher(cmd.Context(), wd); err != nil {
				slog.Error("filesystem watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	addr := fmt.Sprintf(":%d", port)
	slog.Info("filex http server listening", slog.String("addr", addr))
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)

	return http.ListenAndServe(addr, server.Router())
}
