package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"tdbuild/internal/config"
	"tdbuild/internal/logx"
	"tdbuild/internal/paths"
	"tdbuild/internal/target"
)

// Logger is the subset of *log.Logger the commands use.
type Logger interface {
	Printf(format string, v ...any)
}

type workspace struct {
	layout   paths.Layout
	versions config.Versions
	logger   *log.Logger
	closer   io.Closer
}

func (w *workspace) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func resolveLayout() (paths.Layout, error) {
	l, err := paths.Resolve(rootDir)
	if err != nil {
		return paths.Layout{}, err
	}
	return l.WithVersionsFile(versionsFile), nil
}

// openWorkspace resolves the layout, loads and validates the manifest and
// opens a log file named after command.
func openWorkspace(command string) (*workspace, error) {
	l, err := resolveLayout()
	if err != nil {
		return nil, err
	}
	v, err := config.Load(l.VersionsFile)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := l.EnsureDirs(); err != nil {
		return nil, err
	}
	logger, closer, err := logx.New(l, command)
	if err != nil {
		return nil, err
	}
	logger.Printf("tdbuild %s: root=%s versions=%s", command, l.Root, l.VersionsFile)
	for _, r := range v.Check() {
		logger.Printf("versions %s: %s", r.Level, r.Message)
	}
	return &workspace{layout: l, versions: v, logger: logger, closer: closer}, nil
}

func commandContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(parent, timeout)
	}
	return context.WithCancel(parent)
}

func parseTargetFlag(value string) (target.Target, bool, error) {
	if value == "" {
		return target.Default, false, nil
	}
	t, err := target.Parse(value)
	if err != nil {
		return t, false, fmt.Errorf("--target: %w", err)
	}
	return t, true, nil
}
