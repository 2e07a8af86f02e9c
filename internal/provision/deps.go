package provision

import (
	"fmt"
	"os"
	"path/filepath"

	"tdbuild/internal/paths"
	"tdbuild/internal/target"
)

// CMake provisions the portable CMake release for t.
func CMake(l paths.Layout, version string, t target.Target) Step {
	name := fmt.Sprintf("cmake-%s-%s", version, t.Platform())
	return Step{
		Name:       "cmake",
		URL:        fmt.Sprintf("https://github.com/Kitware/CMake/releases/download/v%s/%s.zip", version, name),
		Archive:    l.Work(name + ".zip"),
		ExtractTo:  l.WorkDir,
		InstallDir: l.Work(name),
		BinDir:     l.Work(name, "bin"),
	}
}

// Gperf provisions the gnuwin32 gperf binaries. The archive has no
// top-level folder, so it is extracted into its own directory.
func Gperf(l paths.Layout, version string) Step {
	name := fmt.Sprintf("gperf-%s-bin", version)
	return Step{
		Name:       "gperf",
		URL:        fmt.Sprintf("https://downloads.sourceforge.net/project/gnuwin32/gperf/%s/%s.zip", version, name),
		Archive:    l.Work(name + ".zip"),
		ExtractTo:  l.Work(name),
		InstallDir: l.Work(name),
		BinDir:     l.Work(name, "bin"),
	}
}

// TDLibSource provisions the TDLib source tree for a release tag.
func TDLibSource(l paths.Layout, version string) Step {
	name := "td-" + version
	return Step{
		Name:       "tdlib",
		URL:        fmt.Sprintf("https://github.com/tdlib/td/archive/v%s.zip", version),
		Archive:    l.Work(name + ".zip"),
		ExtractTo:  l.WorkDir,
		InstallDir: l.Work(name),
	}
}

// Vcpkg provisions vcpkg at revision rev. GitHub names the archive folder
// after the full revision; it is renamed to the short form.
func Vcpkg(l paths.Layout, rev, short string) Step {
	installDir := l.Work("vcpkg-" + short)
	extracted := l.Work("vcpkg-" + rev)
	return Step{
		Name:       "vcpkg",
		URL:        fmt.Sprintf("https://github.com/microsoft/vcpkg/archive/%s.zip", rev),
		Archive:    l.Work("vcpkg-" + short + ".zip"),
		ExtractTo:  l.WorkDir,
		InstallDir: installDir,
		BinDir:     installDir,
		AfterExtract: func() error {
			return renameIfNeeded(extracted, installDir)
		},
	}
}

// PortableGit downloads the self-extracting PortableGit bundle. It is not
// unpacked.
func PortableGit(l paths.Layout, version string, t target.Target) Step {
	name := fmt.Sprintf("PortableGit-%s-%s.7z.exe", version, t.GitFlavor())
	return Step{
		Name:         "git",
		URL:          fmt.Sprintf("https://github.com/git-for-windows/git/releases/download/v%s.windows.1/%s", version, name),
		Archive:      l.Work(name),
		InstallDir:   l.Work(name),
		DownloadOnly: true,
	}
}

func renameIfNeeded(from, to string) error {
	if filepath.Clean(from) == filepath.Clean(to) {
		return nil
	}
	fromOK, err := paths.DirExists(from)
	if err != nil {
		return err
	}
	toOK, err := paths.DirExists(to)
	if err != nil {
		return err
	}
	if !fromOK || toOK {
		return nil
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(from), err)
	}
	return nil
}
