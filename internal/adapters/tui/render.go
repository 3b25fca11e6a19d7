package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/samirrijal/antipodes/internal/adapters/mercator"
	"github.com/samirrijal/antipodes/internal/core/domain"
	"github.com/samirrijal/antipodes/internal/pkg/geospatial"
)

const (
	defaultCols = 40
	defaultRows = 14
	minCols     = 16
	minRows     = 6
)

const controls = `tab switch map · ←↓↑→/hjkl pan · +/- zoom · / search · enter submit · esc cancel · q quit`

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	cols, rows := m.gridSize()
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPane(m.primary, cols, rows),
		m.renderPane(m.mirror, cols, rows),
	)

	pc, mc := m.primary.View().Center, m.mirror.View().Center
	sep := geospatial.Separation(pc, mc)
	km := geospatial.Haversine(pc, mc) / 1000
	status := infoStyle.Render(m.status)
	if m.err != nil {
		status = errorStyle.Render(m.status)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Antipodes"))
	b.WriteString("\n")
	b.WriteString(panes)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("separation %.2f° · %.0f km · %s\n", sep.Degrees(), km, status))
	b.WriteString(m.input.View())
	b.WriteString(helpStyle.Render(controls))
	return b.String()
}

// gridSize fits two panes side by side in the terminal.
func (m *Model) gridSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return defaultCols, defaultRows
	}
	// Two bordered, padded panes plus the info and footer lines.
	cols := m.width/2 - 4
	rows := m.height - 14
	return max(cols, minCols), max(rows, minRows)
}

func (m *Model) renderPane(s *mercator.Surface, cols, rows int) string {
	view := s.View()

	var b strings.Builder
	title := s.ID().String()
	if s.ID() == m.active {
		title += " *"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(renderGrid(s, cols, rows))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("center %s  zoom %d\n", view.Center, view.Zoom))
	if view.Viewport != nil {
		b.WriteString(view.Viewport.String())
	}
	if tz := m.localTime(view.Center); tz != "" {
		b.WriteString("\n")
		b.WriteString(tz)
	}

	style := paneStyle
	if s.ID() == m.active {
		style = activePaneStyle
	}
	return style.Render(b.String())
}

func (m *Model) localTime(c domain.Coordinate) string {
	if m.timezones == nil {
		return ""
	}
	name, err := m.timezones.GetTimezone(c.Lat, c.Lng)
	if err != nil {
		return ""
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return name
	}
	return fmt.Sprintf("%s %s", name, m.now().In(loc).Format("Mon 15:04"))
}

// renderGrid draws the surface as a character grid: equator, prime meridian
// and antimeridian lines, the centre crosshair and the markers.
func renderGrid(s *mercator.Surface, cols, rows int) string {
	w, h := s.Size()
	cw, ch := float64(w)/float64(cols), float64(h)/float64(rows)

	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = make([]rune, cols)
		top := s.CoordinateAt(float64(cols)/2*cw, float64(r)*ch)
		bottom := s.CoordinateAt(float64(cols)/2*cw, float64(r+1)*ch)
		equator := top.Lat >= 0 && bottom.Lat < 0

		for c := range cells[r] {
			left := s.CoordinateAt(float64(c)*cw, float64(r)*ch).Lng
			right := s.CoordinateAt(float64(c+1)*cw, float64(r)*ch).Lng
			switch {
			case left > right:
				cells[r][c] = '┆'
			case left <= 0 && right > 0:
				cells[r][c] = '│'
			case equator:
				cells[r][c] = '─'
			default:
				cells[r][c] = '·'
			}
		}
	}

	cells[rows/2][cols/2] = '+'

	markers := make(map[[2]int]bool)
	for _, mk := range s.Markers() {
		x, y, ok := s.Project(mk.Position)
		if !ok {
			continue
		}
		markers[[2]int{int(y / ch), int(x / cw)}] = true
	}

	var b strings.Builder
	for r := range cells {
		for c, cell := range cells[r] {
			if markers[[2]int{r, c}] {
				b.WriteString(markerStyle.Render("●"))
				continue
			}
			b.WriteString(gridStyle.Render(string(cell)))
		}
		if r < len(cells)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
