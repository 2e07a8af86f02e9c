package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tdbuild/internal/config"
	"tdbuild/internal/logx"
	"tdbuild/internal/paths"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the workspace directories and a default versions manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing versions manifest")
	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	l, err := resolveLayout()
	if err != nil {
		return err
	}
	if err := l.EnsureDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(l, "init")
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("tdbuild init: root=%s", l.Root)

	written, err := ensureVersionsFile(l, force, logger)
	if err != nil {
		return err
	}
	if !written {
		cmd.Printf("Workspace already initialized at %s\n", l.Root)
		return nil
	}

	cmd.Printf("Initialized workspace at %s\n", l.Root)
	cmd.Printf("  wrote %s\n", l.VersionsFile)
	return nil
}

func ensureVersionsFile(l paths.Layout, force bool, logger Logger) (bool, error) {
	exists, err := paths.FileExists(l.VersionsFile)
	if err != nil {
		return false, fmt.Errorf("check versions manifest: %w", err)
	}
	if exists && !force {
		logger.Printf("versions manifest exists: %s", l.VersionsFile)
		return false, nil
	}

	data, err := config.Default().Marshal()
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(l.VersionsFile, data, 0o644); err != nil {
		return false, fmt.Errorf("write versions manifest: %w", err)
	}
	logger.Printf("wrote versions manifest: %s", l.VersionsFile)
	return true, nil
}
