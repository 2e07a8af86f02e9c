package builder

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tdbuild/internal/config"
	"tdbuild/internal/paths"
	"tdbuild/internal/provision"
	"tdbuild/internal/runner"
	"tdbuild/internal/target"
)

// Observer is told about step transitions. Implementations must not block.
type Observer interface {
	StepStarted(step, detail string)
	StepFinished(step, detail string)
	StepSkipped(step, detail string)
}

type nopObserver struct{}

func (nopObserver) StepStarted(string, string)  {}
func (nopObserver) StepFinished(string, string) {}
func (nopObserver) StepSkipped(string, string)  {}

// Builder sequences provisioning, the vcpkg and CMake invocations and the
// final staging. Every step is fatal on error and nothing is rolled back;
// a rerun relies on the idempotent provisioning checks.
type Builder struct {
	Layout      paths.Layout
	Versions    config.Versions
	Target      target.Target
	WithGit     bool
	Provisioner *provision.Provisioner
	Runner      runner.Runner
	// Path is the search list handed to child processes. Provisioned bin
	// directories are appended to it.
	Path     *runner.SearchPath
	Logger   *log.Logger
	Observer Observer
	// Stdout and Stderr receive child output live; optional.
	Stdout io.Writer
	Stderr io.Writer
}

// Output describes a finished build.
type Output struct {
	Target     string             `json:"target"`
	Dir        string             `json:"dir"`
	Files      []string           `json:"files"`
	SearchPath []string           `json:"search_path"`
	Provisions []provision.Result `json:"provisions"`
}

// Provision runs every provisioning step and appends the resulting bin
// directories to b.Path in order.
func (b *Builder) Provision(ctx context.Context) ([]provision.Result, error) {
	if err := b.Layout.EnsureDirs(); err != nil {
		return nil, err
	}
	if b.Path == nil {
		b.Path = runner.FromEnvironment()
	}

	deps := Dependencies(b.Layout, b.Versions, b.Target, b.WithGit)
	results := make([]provision.Result, 0, len(deps))
	for _, step := range deps {
		b.observer().StepStarted(step.Name, step.URL)
		res, err := b.Provisioner.Ensure(ctx, step)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if res.BinDir != "" {
			b.Path.Append(res.BinDir)
		}
		if res.Skipped() {
			b.observer().StepSkipped(step.Name, "already installed")
		} else {
			b.observer().StepFinished(step.Name, describe(res))
		}
	}
	return results, nil
}

// Run performs the full build and returns the staged output.
func (b *Builder) Run(ctx context.Context) (Output, error) {
	if err := b.Versions.Validate(); err != nil {
		return Output{}, err
	}
	b.logf("build started: target=%s tdlib=%s vcpkg=%s", b.Target, b.Versions.TDLib(), ShortRevision(b.Versions.Vcpkg()))

	results, err := b.Provision(ctx)
	if err != nil {
		return Output{}, err
	}

	vcpkgDir := VcpkgDir(b.Layout, b.Versions)
	if err := b.installPackages(ctx, vcpkgDir); err != nil {
		return Output{}, err
	}

	buildDir := filepath.Join(SourceDir(b.Layout, b.Versions), "build")
	if err := b.step(StepBuildDir, buildDir, func() error {
		return paths.Recreate(buildDir)
	}); err != nil {
		return Output{}, err
	}

	if err := b.command(ctx, StepConfigure, buildDir, "cmake", ConfigureArgs(b.Target, vcpkgDir)); err != nil {
		return Output{}, err
	}
	if err := b.command(ctx, StepBuild, buildDir, "cmake", BuildArgs()); err != nil {
		return Output{}, err
	}

	out := Output{
		Target:     b.Target.Name(),
		Dir:        b.Layout.OutputDir(b.Versions.TDLib(), b.Target.Platform()),
		SearchPath: b.Path.Added(),
		Provisions: results,
	}
	if err := b.step(StepStage, out.Dir, func() error {
		files, err := Stage(out.Dir, Artifacts(b.Layout, b.Versions, b.Target))
		out.Files = files
		return err
	}); err != nil {
		return out, err
	}

	b.logf("build finished: %s", out.Dir)
	return out, nil
}

func (b *Builder) installPackages(ctx context.Context, vcpkgDir string) error {
	if err := b.command(ctx, StepBootstrap, vcpkgDir, "bootstrap-vcpkg", nil); err != nil {
		return err
	}
	if err := b.command(ctx, StepUpgrade, vcpkgDir, "vcpkg", []string{"upgrade"}); err != nil {
		return err
	}
	return b.command(ctx, StepInstall, vcpkgDir, "vcpkg", InstallArgs(b.Target))
}

// InstallArgs are the vcpkg arguments installing the TDLib dependencies.
func InstallArgs(t target.Target) []string {
	return []string{"install", "openssl:" + t.Triplet(), "zlib:" + t.Triplet()}
}

// ConfigureArgs are the CMake configure arguments, run from the build dir.
func ConfigureArgs(t target.Target, vcpkgDir string) []string {
	var args []string
	if arch := t.CMakeArch(); arch != "" {
		args = append(args, "-A", arch)
	}
	toolchain := filepath.Join(vcpkgDir, "scripts", "buildsystems", "vcpkg.cmake")
	return append(args,
		"-DCMAKE_INSTALL_PREFIX:PATH=../tdlib",
		"-DCMAKE_TOOLCHAIN_FILE:FILEPATH="+filepath.ToSlash(toolchain),
		"..",
	)
}

// BuildArgs builds and installs the Release configuration.
func BuildArgs() []string {
	return []string{"--build", ".", "--target", "install", "--config", "Release"}
}

func (b *Builder) command(ctx context.Context, name, dir, command string, args []string) error {
	detail := strings.TrimSpace(command + " " + strings.Join(args, " "))
	return b.step(name, detail, func() error {
		_, err := b.Runner.Run(ctx, command, args, runner.RunOptions{
			Dir:    dir,
			Path:   b.Path,
			Stdout: b.Stdout,
			Stderr: b.Stderr,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	})
}

func (b *Builder) step(name, detail string, fn func() error) error {
	b.logf("%s: %s", name, detail)
	b.observer().StepStarted(name, detail)
	if err := fn(); err != nil {
		b.logf("%s failed: %v", name, err)
		return err
	}
	b.observer().StepFinished(name, detail)
	return nil
}

// Stage recreates dir and copies every artifact into it.
func Stage(dir string, artifacts []Artifact) ([]string, error) {
	if err := paths.Recreate(dir); err != nil {
		return nil, err
	}
	files := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		dest := filepath.Join(dir, a.Name)
		if err := copyFile(a.Source, dest); err != nil {
			return files, fmt.Errorf("copy %s: %w", a.Name, err)
		}
		files = append(files, dest)
	}
	return files, nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	dest, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return err
	}
	return dest.Close()
}

func describe(res provision.Result) string {
	switch {
	case res.Fetched && res.Extracted:
		return "downloaded, extracted"
	case res.Fetched:
		return "downloaded"
	case res.Extracted:
		return "extracted"
	default:
		return "already installed"
	}
}

func (b *Builder) observer() Observer {
	if b.Observer != nil {
		return b.Observer
	}
	return nopObserver{}
}

func (b *Builder) logf(format string, args ...any) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
	}
}
