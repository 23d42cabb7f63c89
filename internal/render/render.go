// Package render formats a selection for the terminal: a lipgloss-styled
// human view, a structured JSON document, or the bare agent id for piping
// into other tools.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/wayfinder/internal/analyzer"
	"github.com/kingrea/wayfinder/internal/selector"
)

// Format names an output rendering.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatID    Format = "id"
)

// ParseFormat validates a --format flag value.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatHuman:
		return FormatHuman, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatID:
		return FormatID, nil
	}
	return "", fmt.Errorf("render: unknown format %q (want human, json, or id)", raw)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	agentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	altStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	reasonStyle = lipgloss.NewStyle().Italic(true)
)

type jsonAlternative struct {
	Agent      string  `json:"agent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

type jsonSelection struct {
	RecommendedAgent string               `json:"recommended_agent"`
	Confidence       float64              `json:"confidence"`
	Reasoning        string               `json:"reasoning"`
	Alternatives     []jsonAlternative    `json:"alternatives,omitempty"`
	Context          analyzer.TaskContext `json:"context"`
	Warnings         []string             `json:"warnings,omitempty"`
}

// Selection renders one selection in the requested format.
// showAlternatives controls whether the ranked runners-up are included.
func Selection(sel selector.Selection, format Format, showAlternatives bool) (string, error) {
	switch format {
	case FormatID:
		return sel.Agent.ID + "\n", nil
	case FormatJSON:
		return renderJSON(sel, showAlternatives)
	case FormatHuman:
		return renderHuman(sel, showAlternatives), nil
	}
	return "", fmt.Errorf("render: unknown format %q", format)
}

func renderJSON(sel selector.Selection, showAlternatives bool) (string, error) {
	doc := jsonSelection{
		RecommendedAgent: sel.Agent.ID,
		Confidence:       sel.Confidence,
		Reasoning:        sel.Reasoning,
		Context:          sel.Context,
		Warnings:         sel.Warnings,
	}
	if showAlternatives {
		for _, alt := range sel.Alternatives {
			doc.Alternatives = append(doc.Alternatives, jsonAlternative{
				Agent:      alt.Profile.ID,
				Confidence: alt.Confidence,
				Reasoning:  alt.Reasoning,
			})
		}
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render: encode selection: %w", err)
	}
	return string(body) + "\n", nil
}

func renderHuman(sel selector.Selection, showAlternatives bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Recommended agent"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", agentStyle.Render(sel.Agent.ID), labelStyle.Render(sel.Agent.Name)))
	b.WriteString(fmt.Sprintf("%s %.1f%%\n", labelStyle.Render("confidence:"), sel.Confidence))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("reasoning:"), reasonStyle.Render(sel.Reasoning)))
	if ctx := sel.Context.Describe(); ctx != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("context:"), ctx))
	}

	if showAlternatives && len(sel.Alternatives) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Alternatives"))
		b.WriteString("\n")
		for i, alt := range sel.Alternatives {
			b.WriteString(altStyle.Render(fmt.Sprintf("%d. %-10s %5.1f%%  %s", i+2, alt.Profile.ID, alt.Confidence, alt.Reasoning)))
			b.WriteString("\n")
		}
	}

	for _, warning := range sel.Warnings {
		b.WriteString(warnStyle.Render("warning: " + warning))
		b.WriteString("\n")
	}
	return b.String()
}
