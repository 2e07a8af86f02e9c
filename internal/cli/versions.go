package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tdbuild/internal/config"
)

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "Print the versions manifest in effect",
		Args:  cobra.NoArgs,
		RunE:  runVersions,
	}
}

func runVersions(cmd *cobra.Command, _ []string) error {
	l, err := resolveLayout()
	if err != nil {
		return err
	}
	v, err := config.Load(l.VersionsFile)
	if err != nil {
		return err
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Manifest: %s\n", l.VersionsFile)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
		for _, key := range v.Keys() {
			fmt.Fprintf(w, "%s\t%s\n", key, v.Get(key))
		}
		w.Flush()
	}

	for _, r := range v.Check() {
		if r.Level != "error" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Level, r.Message)
		}
	}
	return v.Validate()
}
