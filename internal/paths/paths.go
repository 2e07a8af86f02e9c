package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RootEnv overrides the workspace root when --root is not given.
const RootEnv = "TDBUILD_ROOT"

// Layout captures canonical locations inside a tdbuild workspace.
type Layout struct {
	Root         string
	VersionsFile string
	// WorkDir holds downloaded archives and extracted tool trees.
	WorkDir   string
	BuildsDir string
	LogsDir   string
	LockFile  string
}

// Resolve determines the workspace root from the --root flag, then the
// TDBUILD_ROOT environment variable, then the current working directory.
func Resolve(rootFlag string) (Layout, error) {
	var (
		root string
		err  error
	)

	switch {
	case strings.TrimSpace(rootFlag) != "":
		root, err = filepath.Abs(rootFlag)
	case os.Getenv(RootEnv) != "":
		root, err = filepath.Abs(os.Getenv(RootEnv))
	default:
		root, err = os.Getwd()
	}
	if err != nil {
		return Layout{}, fmt.Errorf("resolve workspace root: %w", err)
	}

	return newLayout(root), nil
}

func newLayout(root string) Layout {
	workDir := filepath.Join(root, "bin")
	return Layout{
		Root:         root,
		VersionsFile: filepath.Join(root, "versions.yaml"),
		WorkDir:      workDir,
		BuildsDir:    filepath.Join(root, "builds"),
		LogsDir:      filepath.Join(root, "logs"),
		LockFile:     filepath.Join(workDir, ".tdbuild.lock"),
	}
}

// WithVersionsFile points the layout at an explicit manifest path. Relative
// paths resolve against the workspace root.
func (l Layout) WithVersionsFile(path string) Layout {
	path = strings.TrimSpace(path)
	if path == "" {
		return l
	}
	if filepath.IsAbs(path) {
		l.VersionsFile = filepath.Clean(path)
	} else {
		l.VersionsFile = filepath.Join(l.Root, path)
	}
	return l
}

// Work joins elements onto the work directory.
func (l Layout) Work(elem ...string) string {
	return filepath.Join(append([]string{l.WorkDir}, elem...)...)
}

// OutputDir returns the staging directory for a library version and platform,
// e.g. builds/td-1.7.0-win64-x64.
func (l Layout) OutputDir(libVersion, platform string) string {
	return filepath.Join(l.BuildsDir, fmt.Sprintf("td-%s-%s", libVersion, platform))
}

// EnsureDirs creates the work, builds and logs directories.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.WorkDir, l.BuildsDir, l.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// Recreate removes dir and everything below it, then creates it empty.
func Recreate(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
