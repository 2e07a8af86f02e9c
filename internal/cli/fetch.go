package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tdbuild/internal/builder"
	"tdbuild/internal/lock"
	"tdbuild/internal/provision"
	"tdbuild/internal/tui"
)

func newFetchCmd() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download and extract the build dependencies without building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, opts)
		},
	}
	addBuildFlags(cmd, opts)
	return cmd
}

func runFetch(cmd *cobra.Command, opts *buildOptions) error {
	mode := tui.DetectMode(cmd.OutOrStdout(), opts.noProgress, outputJSON)
	printBanner(cmd, mode)

	t, err := chooseTarget(cmd, mode, opts.target)
	if err != nil {
		return err
	}

	ws, err := openWorkspace("fetch")
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

	var results []provision.Result
	err = runWithProgress(cmd, mode, req, builder.ProvisionStepNames(req.withGit), cancel, func(b *builder.Builder) error {
		var runErr error
		results, runErr = b.Provision(ctx)
		return runErr
	})
	if err != nil {
		return err
	}

	if mode == tui.ModeJSON {
		return writeFetchJSON(cmd, ws.layout.Root, results)
	}
	writeFetchSummary(cmd, results)
	return nil
}

func writeFetchJSON(cmd *cobra.Command, root string, results []provision.Result) error {
	payload := struct {
		Root  string             `json:"root"`
		Steps []provision.Result `json:"steps"`
	}{Root: root, Steps: results}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writeFetchSummary(cmd *cobra.Command, results []provision.Result) {
	var fetched, extracted, skipped int
	for _, r := range results {
		if r.Fetched {
			fetched++
		}
		if r.Extracted {
			extracted++
		}
		if r.Skipped() {
			skipped++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nDownloaded: %d  Extracted: %d  Already installed: %d\n", fetched, extracted, skipped)
}
