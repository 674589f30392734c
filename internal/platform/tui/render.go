package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/copter/internal/panel"
)

// upperHalf packs two panel rows into one terminal cell: the foreground
// paints the upper pixel, the background the lower one.
const upperHalf = "▀"

type cellColors struct {
	top, bottom color.RGBA
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// RenderPanel converts the panel to a styled string, two pixel rows per
// terminal line. Adjacent cells with the same colors share one style run to
// keep the number of ANSI sequences down.
func RenderPanel(p *panel.Panel) string {
	w, h := p.Width(), p.Height()
	lines := (h + 1) / 2

	var sb strings.Builder
	sb.Grow(w*lines*2 + lines)

	pixel := func(x, y int) color.RGBA {
		if y >= h {
			return color.RGBA{A: 0xff}
		}
		return p.At(x, y)
	}

	for line := range lines {
		if line > 0 {
			sb.WriteRune('\n')
		}
		y := line * 2

		x := 0
		for x < w {
			start := cellColors{top: pixel(x, y), bottom: pixel(x, y+1)}
			n := 0
			for x < w {
				cur := cellColors{top: pixel(x, y), bottom: pixel(x, y+1)}
				if cur != start {
					break
				}
				n++
				x++
			}
			style := lipgloss.NewStyle().
				Foreground(hexColor(start.top)).
				Background(hexColor(start.bottom))
			sb.WriteString(style.Render(strings.Repeat(upperHalf, n)))
		}
	}
	return sb.String()
}

// TerminalSize returns the terminal cells needed to show a panel plus the
// status and help lines.
func TerminalSize(p *panel.Panel) (w, h int) {
	return p.Width(), (p.Height()+1)/2 + 2
}
