package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"daystrip/internal/storage"
	"daystrip/internal/strip"
)

// Styles controls day-cell rendering.
type Styles struct {
	Label    lipgloss.Style
	Cell     lipgloss.Style
	Entry    lipgloss.Style
	Today    lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Label:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Cell:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Align(lipgloss.Center),
		Entry:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Today:    lipgloss.NewStyle().Underline(true),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0")).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// RenderCells lays cells out side by side, each width columns wide with the
// weekday above the day number. A nil entry in cells renders as blank space,
// which keeps the selection centered near the ends of the window.
func RenderCells(cells []*strip.Cell, counts map[string]int, width int, st Styles) string {
	cols := make([]string, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, renderCell(c, counts, width, st))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderCell(c *strip.Cell, counts map[string]int, width int, st Styles) string {
	base := st.Cell.Width(width)
	if c == nil {
		return base.Render("\n\n")
	}
	marker := " "
	style := base
	if n := counts[c.Date.Format(storage.DayLayout)]; n > 0 {
		marker = "•"
		style = style.Inherit(st.Entry)
	}
	if c.IsToday {
		style = style.Inherit(st.Today)
	}
	if c.IsSelected {
		style = st.Selected.Width(width).Align(lipgloss.Center)
	}
	return style.Render(fmt.Sprintf("%s\n%2d\n%s", c.Weekday, c.DayNumber, marker))
}

func renderTasks(tasks []storage.Task, st Styles) string {
	if len(tasks) == 0 {
		return st.Muted.Render("Nothing due.")
	}
	var b strings.Builder
	for _, t := range tasks {
		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", checkbox, t.Title))
	}
	return strings.TrimRight(b.String(), "\n")
}

// visibleRange returns the window indexes [from, to) of count cells centered
// on center. from may be negative and to may exceed n; the caller pads.
func visibleRange(center, count int) (int, int) {
	if count < 1 {
		count = 1
	}
	from := center - count/2
	return from, from + count
}
