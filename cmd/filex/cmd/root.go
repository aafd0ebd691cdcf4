// Package cmd provides the CLI commands for filex.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Muxite/filex/internal/config"
	"github.com/Muxite/filex/internal/logging"
	"github.com/Muxite/filex/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the filex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filex",
		Short: "Local content-addressed semantic search over a directory tree",
		Long: `filex indexes a directory's text and image files into a hidden
.filex repository, embedding each file's content into a local vector index
that can be searched without any network access.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("filex version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.filex/logs/")
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func startLogging(_ *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()

	// A repository's .filex.yaml can override the log path and rotation
	// settings; a missing or unparsable config is not fatal to the CLI, so
	// the defaults above stand in that case. --debug always wins over the
	// configured level, applied last.
	if wd, err := workingDir(); err == nil {
		if cfg, err := config.Load(wd); err == nil {
			if cfg.Logging.Level != "" {
				logCfg.Level = cfg.Logging.Level
			}
			if cfg.Logging.Path != "" {
				logCfg.FilePath = cfg.Logging.Path
			}
			if cfg.Logging.MaxSizeMB > 0 {
				logCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
			}
		}
	}
	if debugMode {
		logCfg.Level = "debug"
	}
	logCfg.WriteToStderr = false

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil // logging is not critical for CLI operation
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
