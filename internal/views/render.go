package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// ConsoleEntry is one message in the console transcript.
type ConsoleEntry struct {
	ID       int64
	Text     string
	Controls []Control
	Edited   bool
}

type ConsoleData struct {
	Header     string
	Entries    []ConsoleEntry
	ActiveID   int64
	Cursor     int
	FocusList  bool
	Input      string
	StatusLine string
	Footer     string
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeStyle   = panelStyle.BorderForeground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	footerStyle   = metaStyle
)

func RenderConsole(data ConsoleData) string {
	lines := []string{headerStyle.Render(data.Header)}
	for _, entry := range data.Entries {
		lines = append(lines, renderEntry(entry, data))
	}
	lines = append(lines, data.Input)

	status := statusStyle.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = errorStyle.Render(data.StatusLine)
	}
	lines = append(lines, status)
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func renderEntry(entry ConsoleEntry, data ConsoleData) string {
	if len(entry.Controls) == 0 {
		return panelStyle.Render(entry.Text)
	}
	active := entry.ID == data.ActiveID
	rows := make([]string, 0, len(entry.Controls)+1)
	for i, c := range entry.Controls {
		row := "[ " + c.Text + " ]"
		if active && data.FocusList && i == data.Cursor {
			row = selectedStyle.Render(row)
		}
		rows = append(rows, row)
	}
	meta := fmt.Sprintf("#%d", entry.ID)
	if entry.Edited {
		meta += " (edited)"
	}
	rows = append(rows, metaStyle.Render(meta))
	if active {
		return activeStyle.Render(strings.Join(rows, "\n"))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
