package runner

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SearchPath is the executable search list handed to child processes. It
// starts from a base PATH and grows as tools are provisioned; entries are
// appended, never replaced, so earlier directories win on name clashes.
type SearchPath struct {
	base  []string
	added []string
}

// NewSearchPath starts from the given PATH-style list.
func NewSearchPath(base string) *SearchPath {
	return &SearchPath{base: filepath.SplitList(base)}
}

// FromEnvironment starts from the current process PATH.
func FromEnvironment() *SearchPath {
	return NewSearchPath(os.Getenv("PATH"))
}

// Append adds dir after every existing entry. Empty and duplicate entries
// are ignored.
func (s *SearchPath) Append(dir string) {
	if strings.TrimSpace(dir) == "" {
		return
	}
	for _, existing := range s.Dirs() {
		if existing == dir {
			return
		}
	}
	s.added = append(s.added, dir)
}

// Added returns the directories appended after construction, in order.
func (s *SearchPath) Added() []string {
	return append([]string(nil), s.added...)
}

// Dirs returns the full list: base entries followed by appended ones.
func (s *SearchPath) Dirs() []string {
	dirs := make([]string, 0, len(s.base)+len(s.added))
	dirs = append(dirs, s.base...)
	dirs = append(dirs, s.added...)
	return dirs
}

// String joins Dirs with the OS list separator.
func (s *SearchPath) String() string {
	return strings.Join(s.Dirs(), string(os.PathListSeparator))
}

// EnvEntry returns the PATH=... assignment for exec.Cmd.Env.
func (s *SearchPath) EnvEntry() string {
	return "PATH=" + s.String()
}

// LookPath resolves name against Dirs, trying Windows executable
// extensions when running on Windows.
func (s *SearchPath) LookPath(name string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		return name, nil
	}
	for _, dir := range s.Dirs() {
		if dir == "" {
			continue
		}
		for _, candidate := range candidates(name) {
			p := filepath.Join(dir, candidate)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
	}
	return "", errors.New("executable " + name + " not found in search path")
}

func candidates(name string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(name) != "" {
		return []string{name}
	}
	exts := []string{".exe", ".bat", ".cmd"}
	out := make([]string, 0, len(exts)+1)
	for _, ext := range exts {
		out = append(out, name+ext)
	}
	return append(out, name)
}
