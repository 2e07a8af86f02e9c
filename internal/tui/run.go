package tui

import (
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user quits the progress view.
var ErrInterrupted = errors.New("interrupted")

// RunWithWork creates a bubbletea program, launches workFn in a goroutine,
// and blocks until both have finished. workFn receives a send callback
// wrapping tea.Program.Send. If the user quits early, cancel is called and
// RunWithWork waits for workFn to observe it.
func RunWithWork(out io.Writer, model ProgressModel, cancel context.CancelFunc, workFn func(send func(tea.Msg)) error) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	workDone := make(chan error, 1)
	go func() {
		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)

		err := workFn(p.Send)
		if err != nil {
			p.Send(ErrorMsg{Err: err})
		} else {
			p.Send(WorkDoneMsg{})
		}
		workDone <- err
	}()

	finalModel, runErr := p.Run()
	m, _ := finalModel.(ProgressModel)
	if runErr != nil || m.Interrupted() {
		if cancel != nil {
			cancel()
		}
	}
	workErr := <-workDone

	switch {
	case workErr != nil:
		return workErr
	case runErr != nil:
		return runErr
	case m.Interrupted():
		return ErrInterrupted
	}
	return nil
}
