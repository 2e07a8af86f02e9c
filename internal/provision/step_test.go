package provision

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tdbuild/internal/archive"
	"tdbuild/internal/paths"
	"tdbuild/internal/target"
)

type fakeFetcher struct {
	calls []string
	body  []byte
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, url, dest string) error {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, f.body, 0o644)
}

type fakeInstaller struct {
	calls []string
	// mkdir is created below dest to simulate extraction.
	mkdir string
}

func (i *fakeInstaller) Install(archivePath, dest string) error {
	i.calls = append(i.calls, archivePath)
	return os.MkdirAll(filepath.Join(dest, i.mkdir), 0o755)
}

func layout(t *testing.T) paths.Layout {
	t.Helper()
	l, err := paths.Resolve(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, l.EnsureDirs())
	return l
}

func TestCMakeStepURLAndFileName(t *testing.T) {
	l := layout(t)
	step := CMake(l, "3.20.1", target.X64)

	require.Equal(t, "https://github.com/Kitware/CMake/releases/download/v3.20.1/cmake-3.20.1-win64-x64.zip", step.URL)
	require.Equal(t, "cmake-3.20.1-win64-x64.zip", filepath.Base(step.Archive))
	require.Equal(t, l.Work("cmake-3.20.1-win64-x64", "bin"), step.BinDir)

	x86 := CMake(l, "3.20.1", target.X86)
	require.Equal(t, "https://github.com/Kitware/CMake/releases/download/v3.20.1/cmake-3.20.1-win32-x86.zip", x86.URL)
}

func TestOtherStepURLs(t *testing.T) {
	l := layout(t)

	g := Gperf(l, "3.0.1")
	require.Equal(t, "https://downloads.sourceforge.net/project/gnuwin32/gperf/3.0.1/gperf-3.0.1-bin.zip", g.URL)
	require.Equal(t, g.InstallDir, g.ExtractTo)

	td := TDLibSource(l, "1.7.0")
	require.Equal(t, "https://github.com/tdlib/td/archive/v1.7.0.zip", td.URL)
	require.Equal(t, "td-1.7.0.zip", filepath.Base(td.Archive))
	require.Empty(t, td.BinDir)

	v := Vcpkg(l, "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2", "a1b2c3d")
	require.Equal(t, "https://github.com/microsoft/vcpkg/archive/a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2.zip", v.URL)
	require.Equal(t, "vcpkg-a1b2c3d.zip", filepath.Base(v.Archive))

	git := PortableGit(l, "2.31.1", target.X86)
	require.Equal(t, "https://github.com/git-for-windows/git/releases/download/v2.31.1.windows.1/PortableGit-2.31.1-32-bit.7z.exe", git.URL)
	require.True(t, git.DownloadOnly)
}

func TestEnsureFetchesAndExtractsWhenMissing(t *testing.T) {
	l := layout(t)
	step := CMake(l, "3.20.1", target.X64)
	fetcher := &fakeFetcher{body: []byte("zip")}
	installer := &fakeInstaller{mkdir: "cmake-3.20.1-win64-x64"}

	var phases []Phase
	p := &Provisioner{Fetcher: fetcher, Installer: installer, OnPhase: func(_ Step, ph Phase) {
		phases = append(phases, ph)
	}}

	res, err := p.Ensure(context.Background(), step)
	require.NoError(t, err)
	require.True(t, res.Fetched)
	require.True(t, res.Extracted)
	require.Equal(t, step.BinDir, res.BinDir)
	require.Equal(t, []string{step.URL}, fetcher.calls)
	require.Len(t, installer.calls, 1)
	require.Equal(t, []Phase{PhaseDownloading, PhaseExtracting, PhaseReady}, phases)
}

func TestEnsureSkipsFetchWhenArchiveExists(t *testing.T) {
	l := layout(t)
	step := CMake(l, "3.20.1", target.X64)
	require.NoError(t, os.WriteFile(step.Archive, []byte("zip"), 0o644))

	fetcher := &fakeFetcher{}
	installer := &fakeInstaller{mkdir: "cmake-3.20.1-win64-x64"}
	p := &Provisioner{Fetcher: fetcher, Installer: installer}

	res, err := p.Ensure(context.Background(), step)
	require.NoError(t, err)
	require.Empty(t, fetcher.calls)
	require.False(t, res.Fetched)
	require.True(t, res.Extracted)
}

func TestEnsureInstalledIsNoOp(t *testing.T) {
	l := layout(t)
	step := TDLibSource(l, "1.7.0")
	require.NoError(t, os.MkdirAll(step.InstallDir, 0o755))
	marker := filepath.Join(step.InstallDir, "CMakeLists.txt")
	require.NoError(t, os.WriteFile(marker, []byte("keep"), 0o644))
	before, err := os.Stat(marker)
	require.NoError(t, err)

	fetcher := &fakeFetcher{}
	installer := &fakeInstaller{}
	p := &Provisioner{Fetcher: fetcher, Installer: installer}

	res, err := p.Ensure(context.Background(), step)
	require.NoError(t, err)
	require.True(t, res.Skipped())
	require.Empty(t, fetcher.calls)
	require.Empty(t, installer.calls)

	entries, err := os.ReadDir(step.InstallDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	after, err := os.Stat(marker)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())

	// The archive is not required once installed.
	_, statErr := os.Stat(step.Archive)
	require.True(t, os.IsNotExist(statErr))
}

func TestEnsurePropagatesFetchError(t *testing.T) {
	l := layout(t)
	fetcher := &fakeFetcher{err: errors.New("network down")}
	installer := &fakeInstaller{}
	p := &Provisioner{Fetcher: fetcher, Installer: installer}

	_, err := p.Ensure(context.Background(), Gperf(l, "3.0.1"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "gperf")
	require.Contains(t, err.Error(), "network down")
	require.Empty(t, installer.calls)
}

func TestEnsureFailsWhenArchiveLacksInstallDir(t *testing.T) {
	l := layout(t)
	p := &Provisioner{Fetcher: &fakeFetcher{}, Installer: &fakeInstaller{mkdir: "something-else"}}

	_, err := p.Ensure(context.Background(), TDLibSource(l, "1.7.0"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "did not produce")
}

func TestEnsureDownloadOnly(t *testing.T) {
	l := layout(t)
	step := PortableGit(l, "2.31.1", target.X64)
	fetcher := &fakeFetcher{body: []byte("exe")}
	installer := &fakeInstaller{}
	p := &Provisioner{Fetcher: fetcher, Installer: installer}

	res, err := p.Ensure(context.Background(), step)
	require.NoError(t, err)
	require.True(t, res.Fetched)
	require.False(t, res.Extracted)
	require.Empty(t, installer.calls)

	res, err = p.Ensure(context.Background(), step)
	require.NoError(t, err)
	require.True(t, res.Skipped())
	require.Len(t, fetcher.calls, 1)
}

func TestVcpkgRenamesExtractedFolder(t *testing.T) {
	l := layout(t)
	rev := "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"
	step := Vcpkg(l, rev, "a1b2c3d")

	// Real archive laid out the way GitHub serves it.
	f, err := os.Create(step.Archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("vcpkg-" + rev + "/bootstrap-vcpkg.bat")
	require.NoError(t, err)
	_, err = w.Write([]byte("@echo off"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	fetcher := &fakeFetcher{}
	p := &Provisioner{Fetcher: fetcher, Installer: archive.Zip{}}
	res, err := p.Ensure(context.Background(), step)
	require.NoError(t, err)
	require.Empty(t, fetcher.calls)
	require.True(t, res.Extracted)

	_, err = os.Stat(filepath.Join(l.WorkDir, "vcpkg-a1b2c3d", "bootstrap-vcpkg.bat"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(l.WorkDir, "vcpkg-"+rev))
	require.True(t, os.IsNotExist(err))
}

func TestInspect(t *testing.T) {
	l := layout(t)
	step := Gperf(l, "3.0.1")

	st, err := Inspect(step)
	require.NoError(t, err)
	require.False(t, st.HasArchive)
	require.False(t, st.Installed)

	require.NoError(t, os.WriteFile(step.Archive, nil, 0o644))
	require.NoError(t, os.MkdirAll(step.InstallDir, 0o755))
	st, err = Inspect(step)
	require.NoError(t, err)
	require.True(t, st.HasArchive)
	require.True(t, st.Installed)
}
