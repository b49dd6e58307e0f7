// Package spectrum draws visualizer frames as terminal cells: vertical bars,
// an oscilloscope line, or radial bars around a circle.
package spectrum

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/waveform/internal/ui/render"
	"github.com/llehouerou/waveform/internal/ui/styles"
	"github.com/llehouerou/waveform/internal/visualizer"
)

// Style selects how a frame is drawn.
type Style int

const (
	Bars Style = iota
	Wave
	Circle
)

func (s Style) String() string {
	switch s {
	case Bars:
		return "bars"
	case Wave:
		return "wave"
	case Circle:
		return "circle"
	default:
		return "unknown"
	}
}

// Next cycles bars → wave → circle.
func (s Style) Next() Style {
	return (s + 1) % 3
}

// ParseStyle maps a style name, defaulting to Bars.
func ParseStyle(name string) Style {
	switch strings.ToLower(name) {
	case "wave":
		return Wave
	case "circle":
		return Circle
	default:
		return Bars
	}
}

// Unicode block elements for bar height, eighths of a cell.
var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const (
	dot = '•'
	// aspect is the cell height to width ratio used to keep circles round.
	aspect = 2.0
)

// Render draws f in the given style into width×height cells. A zero frame
// draws blank lines.
func Render(f visualizer.Frame, style Style, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	var g *grid
	switch style {
	case Wave:
		g = drawWave(f.Waveform, width, height)
	case Circle:
		g = drawCircle(f.Circle, width, height)
	default:
		g = drawBars(f.Bars, width, height)
	}
	return g.String()
}

// Placeholder centers msg in a width×height block.
func Placeholder(msg string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := make([]string, height)
	for i := range lines {
		lines[i] = render.Blank(width)
	}
	lines[height/2] = styles.T().S().Subtle.Render(render.Center(render.TruncateEllipsis(msg, width), width))
	return strings.Join(lines, "\n")
}

// Resample stretches or shrinks values to n points by nearest index.
func Resample(values []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if len(values) == 0 {
		return out
	}
	for i := range out {
		out[i] = values[i*len(values)/n]
	}
	return out
}

// drawBars draws one column per bar with a one cell gap when there is room.
func drawBars(bars []float64, width, height int) *grid {
	g := newGrid(width, height)
	if len(bars) == 0 {
		return g
	}

	step := 2
	if width < len(bars)*2 {
		step = 1
	}
	levels := Resample(bars, width/step)
	for i, v := range levels {
		col := i * step
		eighths := int(math.Round(clamp01(v) * float64(height*8)))
		for row := range height {
			fromBottom := height - 1 - row
			fill := min(max(eighths-fromBottom*8, 0), 8)
			if fill == 0 {
				continue
			}
			g.set(col, row, blocks[fill], float64(fromBottom+1)/float64(height))
		}
	}
	return g
}

// drawWave plots samples in [-1, 1] with the zero line at mid height and
// fills the gaps between neighbouring columns.
func drawWave(samples []float64, width, height int) *grid {
	g := newGrid(width, height)
	if len(samples) == 0 {
		return g
	}

	rowOf := func(v float64) int {
		v = max(-1, min(v, 1))
		return int(math.Round((1 - v) / 2 * float64(height-1)))
	}

	points := Resample(samples, width)
	prev := rowOf(points[0])
	for x, v := range points {
		row := rowOf(v)
		lo, hi := min(row, prev), max(row, prev)
		for r := lo; r <= hi; r++ {
			g.set(x, r, dot, math.Abs(v))
		}
		prev = row
	}
	return g
}

// drawCircle draws radial bars pointing inward from a ring, one per point.
func drawCircle(points []float64, width, height int) *grid {
	g := newGrid(width, height)
	if len(points) == 0 {
		return g
	}

	cx := float64(width-1) / 2
	cy := float64(height-1) / 2
	radius := min(cx/aspect, cy)
	if radius < 1 {
		return g
	}

	for i, v := range points {
		angle := 2*math.Pi*float64(i)/float64(len(points)) - math.Pi/2
		length := clamp01(v) * radius * 0.5
		cos, sin := math.Cos(angle), math.Sin(angle)
		for r := radius - length; r <= radius; r += 0.5 {
			x := int(math.Round(cx + cos*r*aspect))
			y := int(math.Round(cy + sin*r))
			g.set(x, y, dot, clamp01(v))
		}
	}
	return g
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}

type cell struct {
	r     rune
	level float64
}

// grid is a width×height canvas of glyphs, each tinted by its level.
type grid struct {
	width, height int
	cells         []cell
}

func newGrid(width, height int) *grid {
	return &grid{width: width, height: height, cells: make([]cell, width*height)}
}

func (g *grid) set(x, y int, r rune, level float64) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = cell{r: r, level: level}
}

func (g *grid) at(x, y int) rune {
	if r := g.cells[y*g.width+x].r; r != 0 {
		return r
	}
	return ' '
}

func (g *grid) String() string {
	th := styles.T()
	lines := make([]string, g.height)
	var b strings.Builder
	for y := range g.height {
		b.Reset()
		for x := range g.width {
			c := g.cells[y*g.width+x]
			if c.r == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(th.Spectrum(c.level)).Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
