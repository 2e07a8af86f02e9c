package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tdbuild/internal/builder"
	"tdbuild/internal/lock"
	"tdbuild/internal/target"
	"tdbuild/internal/tui"
)

type buildOptions struct {
	target     string
	noProgress bool
	timeout    time.Duration
	withGit    bool
	waitLock   bool
}

func addBuildFlags(cmd *cobra.Command, opts *buildOptions) {
	cmd.Flags().StringVar(&opts.target, "target", "", "Build target: x86 or x64 (prompts when omitted on a terminal)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Print plain progress lines instead of the interactive view")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the run after this long (0 means no limit)")
	cmd.Flags().BoolVar(&opts.withGit, "with-git", false, "Also download the PortableGit bundle")
	cmd.Flags().BoolVar(&opts.waitLock, "wait", false, "Wait for another tdbuild process to release the workspace")
}

func newBuildCmd() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Download dependencies, build TDLib and stage the DLLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}
	addBuildFlags(cmd, opts)
	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOptions) error {
	mode := tui.DetectMode(cmd.OutOrStdout(), opts.noProgress, outputJSON)
	printBanner(cmd, mode)

	t, err := chooseTarget(cmd, mode, opts.target)
	if err != nil {
		return err
	}

	ws, err := openWorkspace("build")
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx, cancel := commandContext(cmd.Context(), opts.timeout)
	defer cancel()

	release, err := lock.Acquire(ctx, ws.layout.LockFile, opts.waitLock)
	if err != nil {
		return err
	}
	defer release()

	req := buildRequest{ws: ws, target: t, withGit: opts.withGit && ws.versions.Git() != ""}
	ws.logger.Printf("target=%s with_git=%t", t, req.withGit)

	var out builder.Output
	err = runWithProgress(cmd, mode, req, builder.StepNames(req.withGit), cancel, func(b *builder.Builder) error {
		var runErr error
		out, runErr = b.Run(ctx)
		return runErr
	})
	if err != nil {
		ws.logger.Printf("build failed: %v", err)
		return err
	}

	if mode == tui.ModeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nStaged %d files for %s in %s\n", len(out.Files), t.Label(), out.Dir)
	return nil
}

// chooseTarget honours --target, then prompts on an interactive terminal,
// then falls back to the default.
func chooseTarget(cmd *cobra.Command, mode tui.OutputMode, flag string) (target.Target, error) {
	t, explicit, err := parseTargetFlag(flag)
	if err != nil || explicit {
		return t, err
	}
	if mode != tui.ModeTUI || !tui.IsInteractive(cmd.InOrStdin()) {
		return t, nil
	}
	choice, err := tui.PromptTarget(cmd.InOrStdin(), cmd.OutOrStdout(), t)
	if err != nil {
		return t, fmt.Errorf("target prompt: %w", err)
	}
	if choice.Cancelled {
		return t, errors.New("cancelled")
	}
	return choice.Target, nil
}
