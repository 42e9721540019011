package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// placeAt draws top over base with its top-left corner at column x, row y.
// Cells of base outside top's rectangle are kept as they were.
func placeAt(base, top string, x, y, width, height int) string {
	rows := canvasLines(base, height)
	topRows := canvasLines(top, 0)
	topWidth := widest(topRows)
	for i, line := range topRows {
		row := y + i
		if row < 0 || row >= len(rows) {
			continue
		}
		target := fitLine(rows[row], width)
		left := fitLine(ansi.Truncate(target, x, ""), x)
		mid := fitLine(line, topWidth)
		right := ansi.TruncateLeft(target, x+topWidth, "")
		rows[row] = fitLine(left+mid+right, width)
	}
	return strings.Join(rows, "\n")
}

// canvas pads or cuts s to exactly width columns by height rows.
func canvas(s string, width, height int) string {
	rows := canvasLines(s, height)
	for i := range rows {
		rows[i] = fitLine(rows[i], width)
	}
	return strings.Join(rows, "\n")
}

// dim strips styling from s and redraws it faint so a card on top stands out.
func dim(s string) string {
	style := lipgloss.NewStyle().Foreground(colorSurface2).Faint(true)
	rows := strings.Split(s, "\n")
	for i, row := range rows {
		rows[i] = style.Render(ansi.Strip(row))
	}
	return strings.Join(rows, "\n")
}

func canvasLines(s string, height int) []string {
	rows := strings.Split(s, "\n")
	if height > 0 && len(rows) > height {
		rows = rows[:height]
	}
	for height > 0 && len(rows) < height {
		rows = append(rows, "")
	}
	return rows
}

func widest(rows []string) int {
	w := 0
	for _, row := range rows {
		w = max(w, ansi.StringWidth(row))
	}
	return w
}

func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// cell renders text in a column of width columns, cutting with an ellipsis.
func cell(text string, width int, style lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	text = ansi.Truncate(text, width-style.GetHorizontalFrameSize(), "…")
	return fitLine(style.Render(text), width)
}
