package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyGradient renders text with a horizontal color gradient.
func ApplyGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, false, from, to)
}

// ApplyBoldGradient renders bold text with a horizontal color gradient.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, true, from, to)
}

func applyGradient(text string, bold bool, from, to lipgloss.Color) string {
	if text == "" {
		return ""
	}

	// Split into grapheme clusters for proper unicode handling
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	style := lipgloss.NewStyle().Bold(bold)
	if len(clusters) == 1 {
		return style.Foreground(from).Render(text)
	}

	colors := Blend(len(clusters), from, to)

	var b strings.Builder
	for i, cluster := range clusters {
		b.WriteString(style.Foreground(colors[i]).Render(cluster))
	}
	return b.String()
}

// Blend returns size colors from from to to, blended in HCL space for
// perceptually even steps.
func Blend(size int, from, to lipgloss.Color) []lipgloss.Color {
	if size <= 0 {
		return nil
	}
	if size == 1 {
		return []lipgloss.Color{from}
	}

	c1, _ := colorful.MakeColor(toColor(from))
	c2, _ := colorful.MakeColor(toColor(to))

	colors := make([]lipgloss.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		colors[i] = lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
	}
	colors[0], colors[size-1] = from, to
	return colors
}

// At returns the color at t in [0, 1] along the from-to gradient.
func At(t float64, from, to lipgloss.Color) lipgloss.Color {
	switch {
	case t <= 0:
		return from
	case t >= 1:
		return to
	}
	c1, _ := colorful.MakeColor(toColor(from))
	c2, _ := colorful.MakeColor(toColor(to))
	return lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
}

// Spectrum returns the visualizer color for level t in [0, 1]: blue through
// violet to amber.
func (t *Theme) Spectrum(level float64) lipgloss.Color {
	level = max(0, min(level, 1))
	if level < 0.5 {
		return At(level*2, t.SpectrumLow, t.SpectrumMid)
	}
	return At((level-0.5)*2, t.SpectrumMid, t.SpectrumHigh)
}

// toColor converts a hex lipgloss.Color. ANSI palette indexes map to gray.
func toColor(c lipgloss.Color) color.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		if col, err := colorful.Hex(hex); err == nil {
			return col
		}
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}
