package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tdbuild/internal/builder"
	"tdbuild/internal/config"
	"tdbuild/internal/paths"
	"tdbuild/internal/provision"
	"tdbuild/internal/target"
)

type outputState struct {
	Dir     string   `json:"dir"`
	Exists  bool     `json:"exists"`
	Present []string `json:"present"`
	Missing []string `json:"missing"`
}

type statusReport struct {
	Root     string            `json:"root"`
	Versions string            `json:"versions"`
	Target   string            `json:"target"`
	Steps    []provision.State `json:"steps"`
	Output   outputState       `json:"output"`
}

func newStatusCmd() *cobra.Command {
	var targetFlag string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which dependencies and outputs are present in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, targetFlag)
		},
	}
	cmd.Flags().StringVar(&targetFlag, "target", "", "Build target to inspect: x86 or x64")
	return cmd
}

func runStatus(cmd *cobra.Command, targetFlag string) error {
	t, _, err := parseTargetFlag(targetFlag)
	if err != nil {
		return err
	}
	l, err := resolveLayout()
	if err != nil {
		return err
	}
	v, err := config.Load(l.VersionsFile)
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}

	report, err := inspectWorkspace(l, v, t)
	if err != nil {
		return err
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	writeStatusTable(cmd, report)
	return nil
}

func inspectWorkspace(l paths.Layout, v config.Versions, t target.Target) (statusReport, error) {
	report := statusReport{Root: l.Root, Versions: l.VersionsFile, Target: t.Name()}

	for _, step := range builder.Dependencies(l, v, t, v.Git() != "") {
		st, err := provision.Inspect(step)
		if err != nil {
			return report, fmt.Errorf("inspect %s: %w", step.Name, err)
		}
		report.Steps = append(report.Steps, st)
	}

	out := outputState{Dir: l.OutputDir(v.TDLib(), t.Platform())}
	exists, err := paths.DirExists(out.Dir)
	if err != nil {
		return report, fmt.Errorf("inspect output: %w", err)
	}
	out.Exists = exists
	for _, a := range builder.Artifacts(l, v, t) {
		ok, err := paths.FileExists(filepath.Join(out.Dir, a.Name))
		if err != nil {
			return report, fmt.Errorf("inspect output: %w", err)
		}
		if ok {
			out.Present = append(out.Present, a.Name)
		} else {
			out.Missing = append(out.Missing, a.Name)
		}
	}
	report.Output = out
	return report, nil
}

func writeStatusTable(cmd *cobra.Command, report statusReport) {
	fmt.Fprintf(cmd.OutOrStdout(), "Workspace: %s\n", report.Root)
	fmt.Fprintf(cmd.OutOrStdout(), "Versions:  %s\n", report.Versions)
	fmt.Fprintf(cmd.OutOrStdout(), "Target:    %s\n\n", report.Target)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tARCHIVE\tINSTALLED\tPATH")
	for _, st := range report.Steps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.Step, yesNo(st.HasArchive), yesNo(st.Installed), st.InstallDir)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\nOutput: %s\n", report.Output.Dir)
	if !report.Output.Exists {
		fmt.Fprintln(cmd.OutOrStdout(), "  not built yet")
		return
	}
	for _, name := range report.Output.Present {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
	for _, name := range report.Output.Missing {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s (missing)\n", name)
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
