package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/phpcore/runtime"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	refStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// pageSize is the number of builtin names shown at once.
const pageSize = 15

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err      error
	eng      *runtime.Engine
	result   callResult
	names    []string
	filtered []string
	filter   textinput.Model
	args     textinput.Model
	selected int
	state    modelState
}

type callResultMsg struct {
	err    error
	result callResult
}

func newInteractiveModel(eng *runtime.Engine) *interactiveModel {
	req := eng.NewRequest()
	names := req.Arrays().Names()
	_ = req.Close()

	filter := textinput.New()
	filter.Prompt = "filter: "
	filter.Placeholder = "type to narrow the list"
	filter.Width = 40
	filter.Focus()

	args := textinput.New()
	args.Prompt = "args: "
	args.Placeholder = `[[3,1,2]]`
	args.Width = 60

	return &interactiveModel{
		eng:      eng,
		names:    names,
		filtered: names,
		filter:   filter,
		args:     args,
		state:    stateSelectFunc,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateSelectFunc && m.selected < len(m.filtered)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.filtered) == 0 {
					return m, nil
				}
				m.state = stateInputArgs
				m.filter.Blur()
				m.args.SetValue("")
				return m, m.args.Focus()

			case stateInputArgs:
				return m, m.callFunction(m.filtered[m.selected], m.args.Value())

			case stateShowResult:
				m.state = stateInputArgs
				m.err = nil
				return m, m.args.Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
				m.args.Blur()
				return m, m.filter.Focus()
			case stateShowResult:
				m.state = stateSelectFunc
				m.err = nil
				return m, m.filter.Focus()
			case stateSelectFunc:
				return m, tea.Quit
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
		m.args.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectFunc:
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
	case stateInputArgs:
		m.args, cmd = m.args.Update(msg)
	}
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.filtered = m.filtered[:0:0]
	for _, n := range m.names {
		if q == "" || strings.Contains(n, q) {
			m.filtered = append(m.filtered, n)
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = max(len(m.filtered)-1, 0)
	}
}

func (m *interactiveModel) callFunction(fn, args string) tea.Cmd {
	if strings.TrimSpace(args) == "" {
		args = "[]"
	}
	return func() tea.Msg {
		cr, err := call(context.Background(), m.eng, fn, args)
		return callResultMsg{result: cr, err: err}
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("phparr"))
	b.WriteString(fmt.Sprintf(" %d builtins\n\n", len(m.names)))

	switch m.state {
	case stateSelectFunc:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		start := 0
		if m.selected >= pageSize {
			start = m.selected - pageSize + 1
		}
		end := min(start+pageSize, len(m.filtered))
		for i := start; i < end; i++ {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.filtered[i]))
			} else {
				b.WriteString("  " + funcStyle.Render(m.filtered[i]))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter choose • esc quit"))

	case stateInputArgs:
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(m.filtered[m.selected])))
		b.WriteString(m.args.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("arguments as a JSON array • enter call • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(m.filtered[m.selected])))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result.result))
			if m.result.byRef != "" {
				b.WriteString("\n")
				b.WriteString(refStyle.Render("&arg1 = " + m.result.byRef))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit arguments • esc back • ctrl+c quit"))
	}

	return b.String()
}

func runInteractive(eng *runtime.Engine) error {
	p := tea.NewProgram(newInteractiveModel(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
