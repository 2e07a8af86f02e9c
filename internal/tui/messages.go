package tui

import "tdbuild/internal/fetch"

// RowUpdateMsg updates a single row's fields by column name.
type RowUpdateMsg struct {
	Key    string
	Fields map[string]string
}

// DownloadMsg carries a progress snapshot for the row identified by Key.
// A final snapshot clears the progress bar.
type DownloadMsg struct {
	Key      string
	Label    string
	Snapshot fetch.Snapshot
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}
