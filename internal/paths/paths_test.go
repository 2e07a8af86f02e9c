package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFlag(t *testing.T) {
	root := t.TempDir()
	l, err := Resolve(root)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if l.Root != root {
		t.Fatalf("expected root %s, got %s", root, l.Root)
	}
	if l.WorkDir != filepath.Join(root, "bin") {
		t.Fatalf("unexpected work dir %s", l.WorkDir)
	}
	if l.VersionsFile != filepath.Join(root, "versions.yaml") {
		t.Fatalf("unexpected versions file %s", l.VersionsFile)
	}
}

func TestResolveEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv(RootEnv, root)
	l, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if l.Root != root {
		t.Fatalf("expected root from env %s, got %s", root, l.Root)
	}
}

func TestWithVersionsFile(t *testing.T) {
	root := t.TempDir()
	l := newLayout(root)

	rel := l.WithVersionsFile("conf/v.yaml")
	if rel.VersionsFile != filepath.Join(root, "conf", "v.yaml") {
		t.Fatalf("expected relative path under root, got %s", rel.VersionsFile)
	}

	abs := filepath.Join(t.TempDir(), "v.yaml")
	if got := l.WithVersionsFile(abs).VersionsFile; got != abs {
		t.Fatalf("expected %s, got %s", abs, got)
	}

	if got := l.WithVersionsFile("  ").VersionsFile; got != l.VersionsFile {
		t.Fatalf("expected unchanged versions file, got %s", got)
	}
}

func TestOutputDir(t *testing.T) {
	l := newLayout("/ws")
	want := filepath.Join("/ws", "builds", "td-1.7.0-win64-x64")
	if got := l.OutputDir("1.7.0", "win64-x64"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestRecreateClearsContents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stale.dll"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Recreate(dir); err != nil {
		t.Fatalf("Recreate: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
}

func TestExistsHelpers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.zip")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if ok, err := FileExists(file); err != nil || !ok {
		t.Fatalf("FileExists(file) = %v, %v", ok, err)
	}
	if ok, _ := FileExists(dir); ok {
		t.Fatal("FileExists should be false for a directory")
	}
	if ok, err := DirExists(dir); err != nil || !ok {
		t.Fatalf("DirExists(dir) = %v, %v", ok, err)
	}
	if ok, err := DirExists(filepath.Join(dir, "missing")); err != nil || ok {
		t.Fatalf("DirExists(missing) = %v, %v", ok, err)
	}
}
