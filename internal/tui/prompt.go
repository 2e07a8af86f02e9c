package tui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tdbuild/internal/target"
)

// TargetChoice is the outcome of the target prompt.
type TargetChoice struct {
	Target    target.Target
	Cancelled bool
}

type targetPromptModel struct {
	options   []target.Target
	current   int
	done      bool
	cancelled bool
}

func newTargetPromptModel(def target.Target) targetPromptModel {
	m := targetPromptModel{options: target.All()}
	for i, t := range m.options {
		if t == def {
			m.current = i
		}
	}
	return m
}

func (m targetPromptModel) Init() tea.Cmd {
	return nil
}

func (m targetPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k", "left", "h":
		m.current = (m.current - 1 + len(m.options)) % len(m.options)
	case "down", "j", "right", "l", "tab":
		m.current = (m.current + 1) % len(m.options)
	case "enter":
		m.done = true
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	default:
		for i, t := range m.options {
			if key.String() == t.Name() || key.String() == fmt.Sprint(i+1) {
				m.current = i
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m targetPromptModel) View() string {
	if m.done {
		return ""
	}
	faint := lipgloss.NewStyle().Faint(true)
	bold := lipgloss.NewStyle().Bold(true)

	var sb strings.Builder
	sb.WriteString(bold.Render("Select build target:"))
	sb.WriteString("\n\n")
	for i, t := range m.options {
		prefix, name := "  ", faint.Render(fmt.Sprintf("%d) %-4s", i+1, t.Name()))
		if i == m.current {
			prefix, name = "▸ ", bold.Render(fmt.Sprintf("%d) %-4s", i+1, t.Name()))
		}
		fmt.Fprintf(&sb, "%s%s  %s\n", prefix, name, faint.Render(fmt.Sprintf("%s (%s)", t.Label(), t.Platform())))
	}
	sb.WriteString("\n")
	sb.WriteString(faint.Render("↑/↓ select · enter confirm · esc cancel"))
	sb.WriteString("\n")
	return sb.String()
}

func (m targetPromptModel) result() TargetChoice {
	if m.cancelled {
		return TargetChoice{Cancelled: true}
	}
	return TargetChoice{Target: m.options[m.current]}
}

// PromptTarget asks which architecture to build, preselecting def.
func PromptTarget(in io.Reader, out io.Writer, def target.Target) (TargetChoice, error) {
	p := tea.NewProgram(newTargetPromptModel(def), tea.WithInput(in), tea.WithOutput(out))
	finalModel, err := p.Run()
	if err != nil {
		return TargetChoice{}, err
	}
	return finalModel.(targetPromptModel).result(), nil
}
