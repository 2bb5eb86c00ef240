// Package prompt provides the blocking "ask for one line of text" capability
// used to collect activities, expenses and companions.
package prompt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Prompter asks the user for a single line. ok is false when the user
// cancelled; an empty answer is returned as ("", true).
type Prompter interface {
	PromptLine(label string) (answer string, ok bool, err error)
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89ddff"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#353b52"))
)

// TeaPrompter runs a one-field Bubble Tea program per question.
type TeaPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTeaPrompter returns a prompter on the given terminal streams. Nil
// streams fall back to the Bubble Tea defaults (stdin/stdout).
func NewTeaPrompter(in io.Reader, out io.Writer) *TeaPrompter {
	return &TeaPrompter{in: in, out: out}
}

// PromptLine blocks until the user submits or cancels the input field.
func (p *TeaPrompter) PromptLine(label string) (string, bool, error) {
	var opts []tea.ProgramOption
	if p.in != nil {
		opts = append(opts, tea.WithInput(p.in))
	}
	if p.out != nil {
		opts = append(opts, tea.WithOutput(p.out))
	}

	final, err := tea.NewProgram(newLineModel(label), opts...).Run()
	if err != nil {
		return "", false, fmt.Errorf("prompt %q: %w", label, err)
	}
	m := final.(lineModel)
	if m.cancelled {
		return "", false, nil
	}
	return m.input.Value(), true, nil
}

// lineModel is the Bubble Tea model behind TeaPrompter.
type lineModel struct {
	label     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newLineModel(label string) lineModel {
	ti := textinput.New()
	ti.Placeholder = "leave empty to skip"
	ti.CharLimit = 256
	ti.Focus()
	return lineModel{label: label, input: ti}
}

func (m lineModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m lineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m lineModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n",
		labelStyle.Render(m.label),
		m.input.View(),
		hintStyle.Render("enter: ok • esc: cancel"))
}

// Scripted answers from a fixed list in order. Once exhausted every
// question is treated as cancelled.
type Scripted struct {
	answers []string
	// Asked records every label in the order asked.
	Asked []string
}

// NewScripted returns a prompter that replays answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// PromptLine records label in Asked and returns the next answer.
func (s *Scripted) PromptLine(label string) (string, bool, error) {
	s.Asked = append(s.Asked, label)
	if len(s.answers) == 0 {
		return "", false, nil
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, true, nil
}
