package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func renderView(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("algo-vocal"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Processing %d file(s)", len(m.Files))))
	b.WriteString("\n\n")

	for _, f := range m.Files {
		b.WriteString(renderFileEntry(f))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(m.Overall()))
	b.WriteString(fmt.Sprintf(" %3.0f%%", m.Overall()*100))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d done, %d failed", m.CompletedFiles, m.FailedFiles)))
	b.WriteString("\n")

	return b.String()
}

func renderFileEntry(f FileProgress) string {
	name := filepath.Base(f.InputPath)

	switch f.Status {
	case StatusProcessing:
		return activeStyle.Render(fmt.Sprintf("▶ %s  %3.0f%%", name, f.Progress*100))
	case StatusComplete:
		return doneStyle.Render(fmt.Sprintf("✓ %s  %.1f → %.1f LUFS, %d clipped",
			name, f.InputLUFS, f.OutputLUFS, f.Clipped))
	case StatusError:
		return errorStyle.Render(fmt.Sprintf("✗ %s  %v", name, f.Err))
	default:
		return pendingStyle.Render("· " + name)
	}
}
