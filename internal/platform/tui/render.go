package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/t2048/internal/core"
)

// cellStyle returns the lipgloss style for a foreground/background pair.
func cellStyle(fg, bg core.Color) lipgloss.Style {
	s := lipgloss.NewStyle()
	if !fg.IsDefault() {
		s = s.Foreground(lipgloss.Color(strconv.Itoa(int(fg))))
	}
	if !bg.IsDefault() {
		s = s.Background(lipgloss.Color(strconv.Itoa(int(bg))))
	}
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Fg != start.Fg || cell.Bg != start.Bg {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start.Fg.IsDefault() && start.Bg.IsDefault() {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(cellStyle(start.Fg, start.Bg).Render(run.String()))
		}
	}
	return sb.String()
}
