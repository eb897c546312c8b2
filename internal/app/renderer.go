package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazystage/internal/changes"
	"github.com/muesli/reflow/truncate"
)

const (
	cursorMarker = "> "
	rowIndent    = "  "
	pathTail     = "…"
)

func (m *Model) applyThemeToHelp() {
	keyStyle := lipgloss.NewStyle().Foreground(m.theme.Accent)
	descStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	sepStyle := lipgloss.NewStyle().Foreground(m.theme.Border)
	m.help.Styles.ShortKey = keyStyle
	m.help.Styles.FullKey = keyStyle
	m.help.Styles.ShortDesc = descStyle
	m.help.Styles.FullDesc = descStyle
	m.help.Styles.ShortSeparator = sepStyle
	m.help.Styles.FullSeparator = sepStyle
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	body, cursorLine := m.renderBody()

	if m.height > 0 {
		available := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
		body = window(body, cursorLine, available)
	}

	sections := []string{header}
	sections = append(sections, body...)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

// window keeps at most size lines, scrolled so cursor stays visible.
func window(lines []string, cursor, size int) []string {
	if size <= 0 {
		return nil
	}
	if len(lines) <= size {
		return lines
	}
	start := 0
	if cursor >= size {
		start = cursor - size + 1
	}
	return lines[start : start+size]
}

func (m *Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true).
		Padding(0, 1)
	title := titleStyle.Render("lazystage")
	if m.repoName != "" {
		title += " " + lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(m.repoName)
	}

	if m.filtering || m.filterInput.Value() != "" {
		title += "\n" + m.filterInput.View()
	}
	return title
}

// renderBody returns the list lines and the line index of the cursor.
func (m *Model) renderBody() ([]string, int) {
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	switch {
	case !m.loaded:
		return []string{muted.Render("Loading changes…")}, 0
	case !m.changes.HasChanges():
		return []string{muted.Render("Working tree clean")}, 0
	case len(m.visible) == 0:
		return []string{muted.Render("No paths match the filter")}, 0
	}

	var lines []string
	cursorLine := 0
	pos := 0
	for _, status := range changes.AllStatuses {
		group := make([]int, 0, len(m.visible))
		for _, idx := range m.visible {
			if m.changes[idx].Status == status {
				group = append(group, idx)
			}
		}
		if len(group) == 0 {
			continue
		}

		heading := lipgloss.NewStyle().Foreground(m.theme.StatusColor(status)).Bold(true)
		lines = append(lines, heading.Render(fmt.Sprintf("%s (%d)", status, len(group))))
		for _, idx := range group {
			if pos == m.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, m.renderRow(m.changes[idx], pos == m.cursor))
			pos++
		}
	}
	return lines, cursorLine
}

func (m *Model) renderRow(change changes.Change, selected bool) string {
	prefix := rowIndent
	if selected {
		prefix = cursorMarker
	}
	icon := ""
	if m.config.ShowIcons {
		if glyph := DeviconForPath(change.Path); glyph != "" {
			icon = glyph + " "
		}
	}

	path := m.fitPath(change.Path, lipgloss.Width(prefix+icon))
	style := lipgloss.NewStyle().Foreground(m.theme.StatusColor(change.Status))
	if selected {
		style = style.Background(m.theme.AccentDim).Bold(true)
	}
	return prefix + icon + style.Render(path)
}

// fitPath truncates path to the configured width, or to the terminal width
// left after used columns.
func (m *Model) fitPath(path string, used int) string {
	limit := m.config.MaxPathWidth
	if limit <= 0 && m.width > 0 {
		limit = m.width - used
	}
	if limit <= 0 || lipgloss.Width(path) <= limit {
		return path
	}
	return truncate.StringWithTail(path, uint(limit), pathTail) //nolint:gosec
}

func (m *Model) renderFooter() string {
	var status string
	switch {
	case m.err != nil:
		status = lipgloss.NewStyle().Foreground(m.theme.ErrorFg).Render("Error: " + m.err.Error())
	case m.busy:
		status = lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("Running git…")
	case m.info != "":
		status = lipgloss.NewStyle().Foreground(m.theme.TextFg).Render(m.info)
	}

	helpView := m.help.View(m.keys)
	if status == "" {
		return helpView
	}
	return status + "\n" + helpView
}
