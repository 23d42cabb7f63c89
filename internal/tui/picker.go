// internal/tui/picker.go
//
// Interactive picker for `wayfinder route --interactive`. It uses bubbletea,
// which follows The Elm Architecture: the Model holds state, Update reacts
// to messages, View renders the state to a string.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/wayfinder/internal/selector"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// Picker is the bubbletea model over the ranked candidates of one selection.
type Picker struct {
	task       string
	candidates []selector.Candidate
	cursor     int
	chosen     string
	cancelled  bool
}

// NewPicker builds a picker from a selection: the recommendation first,
// alternatives after, preserving rank order.
func NewPicker(task string, sel selector.Selection) *Picker {
	candidates := make([]selector.Candidate, 0, len(sel.Alternatives)+1)
	candidates = append(candidates, selector.Candidate{
		Profile:    sel.Agent,
		Confidence: sel.Confidence,
		Reasoning:  sel.Reasoning,
	})
	candidates = append(candidates, sel.Alternatives...)
	return &Picker{task: task, candidates: candidates}
}

// Chosen returns the picked agent id, or "" when the user cancelled.
func (p *Picker) Chosen() string {
	if p.cancelled {
		return ""
	}
	return p.chosen
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if p.cursor < len(p.candidates)-1 {
			p.cursor++
		}
	case key.Matches(keyMsg, keys.Select):
		p.chosen = p.candidates[p.cursor].Profile.ID
		return p, tea.Quit
	case key.Matches(keyMsg, keys.Quit):
		p.cancelled = true
		return p, tea.Quit
	}
	return p, nil
}

// View implements tea.Model.
func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Route: " + p.task))
	b.WriteString("\n\n")
	for i, candidate := range p.candidates {
		line := fmt.Sprintf("%-10s %5.1f%%  %s", candidate.Profile.ID, candidate.Confidence, candidate.Reasoning)
		if i == p.cursor {
			b.WriteString(cursorStyle.Render("> "))
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move · enter choose · q cancel"))
	b.WriteString("\n")
	return b.String()
}

// Run opens the picker and blocks until the user chooses or cancels.
func Run(task string, sel selector.Selection) (string, error) {
	picker := NewPicker(task, sel)
	program := tea.NewProgram(picker)
	model, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("tui: run picker: %w", err)
	}
	final, ok := model.(*Picker)
	if !ok {
		return "", fmt.Errorf("tui: unexpected model type")
	}
	return final.Chosen(), nil
}
