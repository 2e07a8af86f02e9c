package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tdbuild/internal/fetch"
)

func TestRowUpdateMsg(t *testing.T) {
	m := NewStepModel("", []string{"cmake", "gperf"})

	updated, _ := m.Update(RowUpdateMsg{
		Key:    "cmake",
		Fields: map[string]string{"STATUS": StatusDone, "DETAIL": "downloaded, extracted"},
	})
	m = updated.(ProgressModel)

	if m.rows[0].Fields[1] != StatusDone {
		t.Errorf("expected STATUS=done, got %q", m.rows[0].Fields[1])
	}
	if m.rows[0].Fields[2] != "downloaded, extracted" {
		t.Errorf("expected DETAIL updated, got %q", m.rows[0].Fields[2])
	}
	if m.rows[1].Fields[1] != StatusPending {
		t.Errorf("expected row 2 STATUS=pending, got %q", m.rows[1].Fields[1])
	}
}

func TestRowUpdateMsg_UnknownKey(t *testing.T) {
	m := NewStepModel("", []string{"cmake"})

	updated, _ := m.Update(RowUpdateMsg{
		Key:    "missing",
		Fields: map[string]string{"STATUS": StatusDone},
	})
	m = updated.(ProgressModel)

	if m.rows[0].Fields[1] != StatusPending {
		t.Errorf("expected STATUS unchanged, got %q", m.rows[0].Fields[1])
	}
}

func TestWorkDoneMsg(t *testing.T) {
	m := NewStepModel("", []string{"cmake"})

	updated, cmd := m.Update(WorkDoneMsg{})
	m = updated.(ProgressModel)

	if !m.Done() {
		t.Error("expected Done() to be true after WorkDoneMsg")
	}
	if m.Interrupted() {
		t.Error("completed work is not an interruption")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}

func TestErrorMsgMarksRunningRows(t *testing.T) {
	m := NewStepModel("", []string{"cmake", "configure"})
	updated, _ := m.Update(RowUpdateMsg{Key: "configure", Fields: map[string]string{"STATUS": StatusRunning}})
	m = updated.(ProgressModel)

	updated, cmd := m.Update(ErrorMsg{Err: errors.New("cmake exited 1")})
	m = updated.(ProgressModel)

	if !m.Done() || m.Err() == nil {
		t.Fatal("expected model to be done with an error")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
	if m.rows[1].Fields[1] != StatusError {
		t.Errorf("expected running row to become error, got %q", m.rows[1].Fields[1])
	}
	if m.rows[0].Fields[1] != StatusPending {
		t.Errorf("expected pending row untouched, got %q", m.rows[0].Fields[1])
	}
	if !strings.Contains(m.View(), "cmake exited 1") {
		t.Error("expected view to show the error")
	}
}

func TestView(t *testing.T) {
	m := NewStepModel("=== TDLIB BUILDER FOR WINDOWS 1.0 ===", []string{"cmake", "vcpkg"})
	updated, _ := m.Update(RowUpdateMsg{Key: "vcpkg", Fields: map[string]string{"STATUS": StatusSkipped}})
	m = updated.(ProgressModel)

	view := m.View()
	for _, want := range []string{"TDLIB BUILDER", "STEP", "STATUS", "DETAIL", "cmake", "vcpkg", StatusPending, StatusSkipped} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestDownloadMsgShowsBarUntilFinal(t *testing.T) {
	start := time.Unix(0, 0)
	m := NewStepModel("", []string{"cmake"})

	updated, _ := m.Update(DownloadMsg{Key: "cmake", Label: "cmake.zip", Snapshot: fetch.Snapshot{
		Start: start, Now: start.Add(2 * time.Second),
		Total: 1000, TotalKnown: true, Transferred: 500, Rate: 250,
	}})
	m = updated.(ProgressModel)

	view := m.View()
	if !strings.Contains(view, "cmake.zip") || !strings.Contains(view, "50.0%") {
		t.Errorf("expected download line in view, got:\n%s", view)
	}

	updated, _ = m.Update(DownloadMsg{Key: "cmake", Label: "cmake.zip", Snapshot: fetch.Snapshot{Final: true}})
	m = updated.(ProgressModel)
	if strings.Contains(m.View(), "cmake.zip") {
		t.Error("expected download line to clear after the final snapshot")
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"a longer string here", 10, "a longe..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		got := TruncateWithEllipsis(tt.input, tt.max)
		if got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func TestMarqueeText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		tick  int
		want  string
	}{
		{"short", 10, 0, "short"},
		{"hello world here", 5, 0, "hello"},
		{"hello world here", 5, 1, "ello "},
		{"abcdef", 4, 6, "   a"},
	}
	for _, tt := range tests {
		if got := marqueeText(tt.text, tt.width, tt.tick); got != tt.want {
			t.Errorf("marqueeText(%q, %d, %d) = %q, want %q", tt.text, tt.width, tt.tick, got, tt.want)
		}
	}
}

func TestTickStopsAfterDone(t *testing.T) {
	m := NewStepModel("", []string{"cmake"})

	updated, cmd := m.Update(tickMsg{})
	m = updated.(ProgressModel)
	if m.tick != 1 || cmd == nil {
		t.Fatalf("expected tick=1 and a follow-up tick, got %d", m.tick)
	}

	updated, _ = m.Update(WorkDoneMsg{})
	m = updated.(ProgressModel)
	if _, cmd = m.Update(tickMsg{}); cmd != nil {
		t.Error("expected no tick command after done")
	}
}

func TestProgressCounts(t *testing.T) {
	m := NewStepModel("", []string{"cmake", "gperf", "tdlib"})
	updated, _ := m.Update(RowUpdateMsg{Key: "cmake", Fields: map[string]string{"STATUS": StatusSkipped}})
	m = updated.(ProgressModel)

	processed, total := m.progressCounts()
	if total != 3 || processed != 1 {
		t.Errorf("expected 1/3, got %d/%d", processed, total)
	}
}

func TestCtrlCInterrupts(t *testing.T) {
	m := NewStepModel("", []string{"cmake"})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(ProgressModel)

	if !m.Done() || !m.Interrupted() {
		t.Error("expected ctrl+c to finish the model as interrupted")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
}
