package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"tdbuild/internal/fetch"
	"tdbuild/internal/provision"
)

// DownloadReporter adapts fetch progress to DownloadMsg. Fetch only knows
// the archive file name, so labels are bound to step rows up front.
type DownloadReporter struct {
	send func(tea.Msg)
	keys map[string]string
}

// NewDownloadReporter returns a reporter that sends through send.
func NewDownloadReporter(send func(tea.Msg)) *DownloadReporter {
	return &DownloadReporter{send: send, keys: make(map[string]string)}
}

// Bind routes snapshots for label to the row keyed by step.
func (r *DownloadReporter) Bind(label, step string) {
	r.keys[label] = step
}

// Report implements fetch.Reporter.
func (r *DownloadReporter) Report(label string, snap fetch.Snapshot) {
	r.send(DownloadMsg{Key: r.keys[label], Label: label, Snapshot: snap})
	if key, ok := r.keys[label]; ok {
		r.send(RowUpdateMsg{Key: key, Fields: map[string]string{
			"DETAIL": fetch.FormatRatio(snap.Transferred, snap.Total),
		}})
	}
}

// StepReporter turns build step events into row updates. It satisfies
// builder.Observer.
type StepReporter struct {
	send func(tea.Msg)
}

// NewStepReporter returns a reporter that sends through send.
func NewStepReporter(send func(tea.Msg)) *StepReporter {
	return &StepReporter{send: send}
}

func (r *StepReporter) StepStarted(step, detail string) {
	r.update(step, StatusRunning, detail)
}

func (r *StepReporter) StepFinished(step, detail string) {
	r.update(step, StatusDone, detail)
}

func (r *StepReporter) StepSkipped(step, detail string) {
	r.update(step, StatusSkipped, detail)
}

// Phase follows provisioning transitions; use it as Provisioner.OnPhase.
func (r *StepReporter) Phase(step provision.Step, phase provision.Phase) {
	switch phase {
	case provision.PhaseDownloading:
		r.update(step.Name, StatusDownloading, step.URL)
	case provision.PhaseExtracting:
		r.update(step.Name, StatusExtracting, step.ExtractTo)
	}
}

func (r *StepReporter) update(step, status, detail string) {
	r.send(RowUpdateMsg{Key: step, Fields: map[string]string{
		"STATUS": status,
		"DETAIL": detail,
	}})
}
