package runner

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchPathAppendOrder(t *testing.T) {
	sep := string(os.PathListSeparator)
	s := NewSearchPath(strings.Join([]string{"/usr/bin", "/bin"}, sep))

	s.Append("/ws/bin/cmake/bin")
	s.Append("/ws/bin/gperf/bin")
	s.Append("")
	s.Append("/usr/bin")
	s.Append("/ws/bin/cmake/bin")

	require.Equal(t, []string{"/usr/bin", "/bin", "/ws/bin/cmake/bin", "/ws/bin/gperf/bin"}, s.Dirs())
	require.Equal(t, []string{"/ws/bin/cmake/bin", "/ws/bin/gperf/bin"}, s.Added())
	require.Equal(t, "PATH="+strings.Join(s.Dirs(), sep), s.EnvEntry())
}

func TestSearchPathDoesNotTouchProcessEnv(t *testing.T) {
	t.Setenv("PATH", "/only")
	s := FromEnvironment()
	s.Append("/extra")
	require.Equal(t, "/only", os.Getenv("PATH"))
}

func TestSearchPathLookPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	name := "tool"
	file := name
	if runtime.GOOS == "windows" {
		file = name + ".exe"
	}
	require.NoError(t, os.WriteFile(filepath.Join(first, file), []byte("a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(second, file), []byte("b"), 0o755))

	s := NewSearchPath("")
	s.Append(first)
	s.Append(second)

	got, err := s.LookPath(name)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(first, file), got)

	_, err = s.LookPath("missing-tool")
	require.Error(t, err)
}
