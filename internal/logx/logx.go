package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"tdbuild/internal/paths"
)

// New creates a logger that writes to a timestamped file inside the
// workspace logs directory. The command name is part of the file name so
// build and fetch runs are easy to tell apart. The returned closer should
// be closed when logging is no longer needed.
func New(l paths.Layout, command string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(l.LogsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + "-" + command + ".log"
	filePath := filepath.Join(l.LogsDir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	return logger, file, nil
}

// Discard returns a logger that drops everything, for tests and callers
// that run without a workspace.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
