package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/wayfinder/internal/registry"
	"github.com/kingrea/wayfinder/internal/selector"
)

func samplePicker() *Picker {
	sel := selector.Selection{
		Agent:      registry.AgentProfile{ID: "backend"},
		Confidence: 80,
		Reasoning:  "strong capability match",
		Alternatives: []selector.Candidate{
			{Profile: registry.AgentProfile{ID: "qa"}, Confidence: 60, Reasoning: "best available composite score"},
			{Profile: registry.AgentProfile{ID: "docs"}, Confidence: 40, Reasoning: "best available composite score"},
		},
	}
	return NewPicker("fix the build", sel)
}

func press(p *Picker, k string) *Picker {
	model, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return model.(*Picker)
}

func TestPickerDefaultsToRecommendation(t *testing.T) {
	p := samplePicker()
	model, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("enter should quit the program")
	}
	if got := model.(*Picker).Chosen(); got != "backend" {
		t.Fatalf("chosen = %q, want backend", got)
	}
}

func TestPickerNavigation(t *testing.T) {
	p := samplePicker()
	p = press(p, "j")
	p = press(p, "j")
	p = press(p, "j") // clamps at the last entry
	model, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := model.(*Picker).Chosen(); got != "docs" {
		t.Fatalf("chosen = %q, want docs", got)
	}
}

func TestPickerCancel(t *testing.T) {
	p := samplePicker()
	model, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("esc should quit the program")
	}
	if got := model.(*Picker).Chosen(); got != "" {
		t.Fatalf("cancelled picker should choose nothing, got %q", got)
	}
}

func TestPickerViewListsCandidates(t *testing.T) {
	view := samplePicker().View()
	for _, needle := range []string{"fix the build", "backend", "qa", "docs"} {
		if !strings.Contains(view, needle) {
			t.Fatalf("view missing %q:\n%s", needle, view)
		}
	}
}
