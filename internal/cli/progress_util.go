package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tdbuild/internal/archive"
	"tdbuild/internal/builder"
	"tdbuild/internal/fetch"
	"tdbuild/internal/provision"
	"tdbuild/internal/runner"
	"tdbuild/internal/target"
	"tdbuild/internal/tui"
)

// progressSink bundles the callbacks a builder reports through.
type progressSink struct {
	observer builder.Observer
	reporter fetch.Reporter
	onPhase  func(provision.Step, provision.Phase)
	stdout   io.Writer
	stderr   io.Writer
}

// plainObserver prints one line per step event.
type plainObserver struct {
	w io.Writer
}

func (o plainObserver) StepStarted(step, detail string) {
	fmt.Fprintf(o.w, "==> %s: %s\n", step, nonEmptyOrDash(detail))
}

func (o plainObserver) StepFinished(step, detail string) {
	fmt.Fprintf(o.w, "    %s: done (%s)\n", step, nonEmptyOrDash(detail))
}

func (o plainObserver) StepSkipped(step, detail string) {
	fmt.Fprintf(o.w, "    %s: skipped (%s)\n", step, nonEmptyOrDash(detail))
}

func (o plainObserver) phase(step provision.Step, phase provision.Phase) {
	switch phase {
	case provision.PhaseDownloading:
		fmt.Fprintf(o.w, "    downloading %s\n", filepath.Base(step.Archive))
	case provision.PhaseExtracting:
		fmt.Fprintf(o.w, "    extracting %s\n", filepath.Base(step.Archive))
	}
}

// plainSink writes events and download progress as lines to w. Child
// process output goes to stdout and stderr unchanged.
func plainSink(w, stdout, stderr io.Writer) progressSink {
	obs := plainObserver{w: w}
	return progressSink{
		observer: obs,
		reporter: fetch.LineReporter{W: w},
		onPhase:  obs.phase,
		stdout:   stdout,
		stderr:   stderr,
	}
}

// tuiSink routes events to the progress table. Child process output is
// kept out of the table and written to childLog.
func tuiSink(send func(tea.Msg), deps []provision.Step, childLog io.Writer) progressSink {
	steps := tui.NewStepReporter(send)
	downloads := tui.NewDownloadReporter(send)
	for _, d := range deps {
		downloads.Bind(filepath.Base(d.Archive), d.Name)
	}
	return progressSink{
		observer: steps,
		reporter: downloads,
		onPhase:  steps.Phase,
		stdout:   childLog,
		stderr:   childLog,
	}
}

type buildRequest struct {
	ws      *workspace
	target  target.Target
	withGit bool
}

func (r buildRequest) dependencies() []provision.Step {
	return builder.Dependencies(r.ws.layout, r.ws.versions, r.target, r.withGit)
}

func (r buildRequest) builder(sink progressSink) *builder.Builder {
	return &builder.Builder{
		Layout:   r.ws.layout,
		Versions: r.ws.versions,
		Target:   r.target,
		WithGit:  r.withGit,
		Provisioner: &provision.Provisioner{
			Fetcher:   fetch.New(sink.reporter, r.ws.logger),
			Installer: archive.Zip{},
			Logger:    r.ws.logger,
			OnPhase:   sink.onPhase,
		},
		Runner:   runner.CmdRunner{},
		Path:     runner.FromEnvironment(),
		Logger:   r.ws.logger,
		Observer: sink.observer,
		Stdout:   sink.stdout,
		Stderr:   sink.stderr,
	}
}

// runWithProgress runs work against a builder wired for mode. In TUI mode
// the step table lists steps; otherwise events are printed as lines, to
// stderr when stdout carries JSON.
func runWithProgress(cmd *cobra.Command, mode tui.OutputMode, req buildRequest, steps []string, cancel context.CancelFunc, work func(b *builder.Builder) error) error {
	if mode == tui.ModeTUI {
		model := tui.NewStepModel("", steps)
		return tui.RunWithWork(cmd.OutOrStdout(), model, cancel, func(send func(tea.Msg)) error {
			return work(req.builder(tuiSink(send, req.dependencies(), req.ws.logger.Writer())))
		})
	}

	lines := cmd.OutOrStdout()
	if mode == tui.ModeJSON {
		lines = cmd.ErrOrStderr()
	}
	return work(req.builder(plainSink(lines, lines, cmd.ErrOrStderr())))
}

func printBanner(cmd *cobra.Command, mode tui.OutputMode) {
	switch mode {
	case tui.ModeTUI:
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", tui.BannerStyle.Render(banner()))
	case tui.ModePlain:
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", banner())
	}
}

func nonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}
