package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tdbuild/internal/fetch"
)

var (
	rootDir      string
	versionsFile string
	outputJSON   bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tdbuild",
		Short:         "Build TDLib for Windows from source",
		Version:       fetch.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rootDir, "root", "", "Workspace directory (default $TDBUILD_ROOT or the current directory)")
	cmd.PersistentFlags().StringVar(&versionsFile, "versions", "", "Path to the versions manifest (default <root>/versions.yaml)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionsCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

func banner() string {
	return fmt.Sprintf("=== TDLIB BUILDER FOR WINDOWS %s ===", fetch.Version)
}
