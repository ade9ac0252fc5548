package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"configmirror/internal/app"
	"configmirror/internal/config"
	"configmirror/internal/watcher"
	"configmirror/pkg/logging"
)

// serveConfigPath specifies an optional configuration file path. Environment
// variables override values loaded from the file.
var serveConfigPath string

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveCmd defines the serve command structure.
// This is the main command of configmirror: it connects to the cluster,
// converges the target directory with the current in-scope resources and
// keeps mirroring changes until terminated.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Watch the cluster and mirror labeled resources to the target directory",
	Long: `Starts the configmirror watch loop.

Configuration is read from environment variables (LABEL, LABEL_VALUE,
RESOURCE, FOLDER, UNIQUE_FILENAMES, EVENT_LOGGING, NAMESPACE,
WATCH_CLIENT_TIMEOUT, WATCH_SERVER_TIMEOUT), optionally layered on top of a
YAML configuration file given with --config-path. LABEL and FOLDER are
required.

The process runs until it receives SIGINT or SIGTERM, then shuts down
gracefully.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serveDebug {
		cfg.Debug = true
	}

	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stdout)

	restConfig, err := watcher.GetRestConfig()
	if err != nil {
		return fmt.Errorf("failed to resolve cluster configuration: %w", err)
	}

	application, err := app.NewApplication(cfg, restConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

// init registers the serve command and its flags with the root command.
func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Path to an optional YAML configuration file")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}
