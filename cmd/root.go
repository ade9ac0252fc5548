package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the configmirror application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "configmirror",
	Short: "Mirror labeled ConfigMaps and Secrets into a local directory",
	Long: `configmirror watches a Kubernetes cluster for ConfigMaps and Secrets
carrying a configured label and materializes their entries as files in a
target directory, keeping the directory in sync as resources are created,
updated and deleted.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "configmirror version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
