package provision

import (
	"context"
	"fmt"
	"log"

	"tdbuild/internal/archive"
	"tdbuild/internal/paths"
)

// Fetcher downloads url into dest, overwriting it.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Phase names a transition inside Ensure.
type Phase string

const (
	PhaseInstalled   Phase = "installed"
	PhaseDownloading Phase = "downloading"
	PhaseExtracting  Phase = "extracting"
	PhaseReady       Phase = "ready"
)

// Step describes one dependency to provision. Every path is absolute.
type Step struct {
	Name string
	URL  string
	// Archive is where the download is stored.
	Archive string
	// ExtractTo receives the archive contents. It may be a parent of
	// InstallDir when the archive carries its own top-level folder.
	ExtractTo string
	// InstallDir is the directory whose presence marks the step as done.
	InstallDir string
	// BinDir, when set, is added to the executable search path.
	BinDir string
	// DownloadOnly steps stop after the archive is on disk.
	DownloadOnly bool
	// AfterExtract runs once after a fresh extraction.
	AfterExtract func() error
}

// Result reports what Ensure did.
type Result struct {
	Step       string `json:"step"`
	InstallDir string `json:"install_dir"`
	BinDir     string `json:"bin_dir,omitempty"`
	Fetched    bool   `json:"fetched"`
	Extracted  bool   `json:"extracted"`
}

// Skipped reports whether neither fetch nor extract ran.
func (r Result) Skipped() bool {
	return !r.Fetched && !r.Extracted
}

// Provisioner applies the fetch-then-extract-unless-present pattern.
type Provisioner struct {
	Fetcher   Fetcher
	Installer archive.Installer
	Logger    *log.Logger
	// OnPhase is notified on each transition; optional.
	OnPhase func(step Step, phase Phase)
}

// Ensure brings step to its installed state. An existing InstallDir skips
// both the download and the extraction; an existing archive skips only the
// download.
func (p *Provisioner) Ensure(ctx context.Context, step Step) (Result, error) {
	res := Result{Step: step.Name, InstallDir: step.InstallDir, BinDir: step.BinDir}

	installed, err := p.installed(step)
	if err != nil {
		return res, err
	}
	if installed {
		p.logf("%s: already installed at %s", step.Name, step.InstallDir)
		p.notify(step, PhaseInstalled)
		return res, nil
	}

	haveArchive, err := paths.FileExists(step.Archive)
	if err != nil {
		return res, fmt.Errorf("%s: stat archive: %w", step.Name, err)
	}
	if !haveArchive {
		p.logf("%s: downloading %s", step.Name, step.URL)
		p.notify(step, PhaseDownloading)
		if err := p.Fetcher.Fetch(ctx, step.URL, step.Archive); err != nil {
			return res, fmt.Errorf("%s: %w", step.Name, err)
		}
		res.Fetched = true
	}

	if step.DownloadOnly {
		p.notify(step, PhaseReady)
		return res, nil
	}

	p.logf("%s: extracting %s into %s", step.Name, step.Archive, step.ExtractTo)
	p.notify(step, PhaseExtracting)
	if err := p.Installer.Install(step.Archive, step.ExtractTo); err != nil {
		return res, fmt.Errorf("%s: extract: %w", step.Name, err)
	}
	res.Extracted = true

	if step.AfterExtract != nil {
		if err := step.AfterExtract(); err != nil {
			return res, fmt.Errorf("%s: %w", step.Name, err)
		}
	}

	ok, err := paths.DirExists(step.InstallDir)
	if err != nil {
		return res, fmt.Errorf("%s: stat install dir: %w", step.Name, err)
	}
	if !ok {
		return res, fmt.Errorf("%s: archive did not produce %s", step.Name, step.InstallDir)
	}

	p.notify(step, PhaseReady)
	return res, nil
}

// State describes a step's on-disk state without changing anything.
type State struct {
	Step       string `json:"step"`
	URL        string `json:"url"`
	Archive    string `json:"archive"`
	HasArchive bool   `json:"has_archive"`
	InstallDir string `json:"install_dir"`
	Installed  bool   `json:"installed"`
}

// Inspect reports the on-disk state of step.
func Inspect(step Step) (State, error) {
	st := State{Step: step.Name, URL: step.URL, Archive: step.Archive, InstallDir: step.InstallDir}
	var err error
	if st.HasArchive, err = paths.FileExists(step.Archive); err != nil {
		return st, err
	}
	if step.DownloadOnly {
		st.Installed = st.HasArchive
		return st, nil
	}
	if st.Installed, err = paths.DirExists(step.InstallDir); err != nil {
		return st, err
	}
	return st, nil
}

func (p *Provisioner) installed(step Step) (bool, error) {
	if step.DownloadOnly {
		ok, err := paths.FileExists(step.Archive)
		if err != nil {
			return false, fmt.Errorf("%s: stat archive: %w", step.Name, err)
		}
		return ok, nil
	}
	ok, err := paths.DirExists(step.InstallDir)
	if err != nil {
		return false, fmt.Errorf("%s: stat install dir: %w", step.Name, err)
	}
	return ok, nil
}

func (p *Provisioner) notify(step Step, phase Phase) {
	if p.OnPhase != nil {
		p.OnPhase(step, phase)
	}
}

func (p *Provisioner) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}
