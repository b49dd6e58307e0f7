// Package render holds width-aware text helpers for the terminal views.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters (tab excepted) and invalid UTF-8 and
// turns non-breaking spaces into plain ones. Track tags and remote titles go
// through it before they reach the terminal.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		switch {
		case r == utf8.RuneError && size <= 1:
		case r == '\u00a0':
			b.WriteByte(' ')
		case r == '\t' || !unicode.IsControl(r):
			b.WriteString(s[:size])
		}
		s = s[size:]
	}
	return b.String()
}

func needsSanitize(s string) bool {
	for i := range len(s) {
		c := s[i]
		switch {
		case c < 0x20 && c != '\t':
			return true
		case c >= 0x80 && c <= 0x9f:
			return true
		case c == 0xc2 && i+1 < len(s) && s[i+1] == 0xa0:
			return true
		}
	}
	return !utf8.ValidString(s)
}

// Truncate sanitizes s and cuts it to maxWidth cells with a "..." tail.
func Truncate(s string, maxWidth int) string {
	return runewidth.Truncate(Sanitize(s), maxWidth, "...")
}

// TruncateEllipsis cuts s to maxWidth cells with a single "…". Styled input
// keeps its escape sequences.
func TruncateEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, "…")
}

// Pad right-fills s with spaces to width cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Fit truncates with "…" then pads so the result is exactly width cells.
func Fit(s string, width int) string {
	return Pad(TruncateEllipsis(Sanitize(s), width), width)
}

// Row puts left and right at the edges of a width-cell line, with at least
// one space between them.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Center pads s on both sides to width cells.
func Center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// Separator returns a horizontal rule of width cells.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}

// Blank returns width spaces.
func Blank(width int) string {
	return strings.Repeat(" ", max(width, 0))
}
