// Package playerbar renders the transport panel: the current track, the
// progress bar with its buffered portion, and the output and mode indicators.
package playerbar

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/llehouerou/waveform/internal/icons"
	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/ui/render"
	"github.com/llehouerou/waveform/internal/ui/styles"
)

const (
	separator   = "   "
	minBarWidth = 5
)

// Height returns the rendered height for s, borders included.
func Height(s playback.State) int {
	if s.Err != nil {
		return 5
	}
	return 4
}

// Render returns the player bar for s at the given outer width.
func Render(s playback.State, width int) string {
	inner := max(width-6, 0) // border plus horizontal padding

	lines := []string{
		header(s, inner),
		progressLine(s, inner),
	}
	if s.Err != nil {
		msg := icons.Error() + " " + s.Err.Message + "  (esc to dismiss)"
		lines = append(lines, styles.T().S().Error.Render(render.TruncateEllipsis(msg, inner)))
	}

	return styles.PanelStyle(false).
		Padding(0, 2).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// header renders "▶ Title · Artist" on the left and the indicators on the
// right.
func header(s playback.State, width int) string {
	st := styles.T().S()

	right := indicators(s)
	rightWidth := lipgloss.Width(right)

	status := StatusIcon(s.Status())
	avail := max(width-rightWidth-lipgloss.Width(status)-len(separator)-1, 0)
	if s.Track != nil && s.Track.Favorite {
		avail = max(avail-1-lipgloss.Width(icons.Favorite()), 0)
	}

	var left string
	if s.Track == nil {
		left = st.Muted.Render(render.TruncateEllipsis("No track selected", avail))
	} else {
		title := render.Sanitize(s.Track.Title)
		if title == "" {
			title = "Unknown Track"
		}
		info := render.Sanitize(strings.Join(lo.Compact([]string{s.Track.Artist, s.Track.Album}), " · "))

		titleWidth := lipgloss.Width(title)
		switch {
		case info != "" && titleWidth+len(separator)+lipgloss.Width(info) <= avail:
			left = st.Title.Render(title) + separator + st.Muted.Render(info)
		case info != "" && titleWidth+len(separator)+minBarWidth <= avail:
			infoWidth := avail - titleWidth - len(separator)
			left = st.Title.Render(title) + separator + st.Muted.Render(render.TruncateEllipsis(info, infoWidth))
		default:
			left = st.Title.Render(render.TruncateEllipsis(title, avail))
		}
		if s.Track.Favorite {
			left += " " + st.Error.Render(icons.Favorite())
		}
	}

	return render.Row(status+" "+left, right, width)
}

// indicators renders volume, rate and modes.
func indicators(s playback.State) string {
	st := styles.T().S()
	parts := []string{Volume(s.Volume, s.Muted)}
	if r := Rate(s.Rate); r != "" {
		parts = append(parts, st.Accent.Render(r))
	}
	if m := Modes(s.Shuffle, s.Repeat); m != "" {
		parts = append(parts, st.Accent.Render(m))
	}
	return strings.Join(parts, "  ")
}

func progressLine(s playback.State, width int) string {
	st := styles.T().S()
	pos := playback.FormatTime(s.Position)
	dur := "--:--"
	if s.HasDuration() {
		dur = playback.FormatTime(s.Duration)
	}

	barWidth := width - lipgloss.Width(pos) - lipgloss.Width(dur) - 2
	if barWidth < minBarWidth {
		return st.Muted.Render(pos + " / " + dur)
	}
	bar := ProgressBar(s.Progress(), s.BufferedProgress(), barWidth)
	return st.Muted.Render(pos) + " " + bar + " " + st.Muted.Render(dur)
}

// StatusIcon returns the glyph for a playback status.
func StatusIcon(status playback.Status) string {
	st := styles.T().S()
	switch status {
	case playback.StatusPlaying:
		return st.Success.Render(icons.Play())
	case playback.StatusLoading:
		return st.Warning.Render(icons.Loading())
	case playback.StatusError:
		return st.Error.Render(icons.Error())
	case playback.StatusIdle:
		return st.Subtle.Render(icons.Pause())
	default:
		return st.Base.Render(icons.Pause())
	}
}

// Volume renders the volume indicator, "🔊  70%" or the muted icon.
func Volume(volume float64, muted bool) string {
	pct := int(volume*100 + 0.5)
	return styles.T().S().Muted.Render(fmt.Sprintf("%s %3d%%", icons.Volume(muted), pct))
}

// Rate renders the playback rate, or nothing at normal speed.
func Rate(rate float64) string {
	if rate == 0 || rate == 1 {
		return ""
	}
	return strconv.FormatFloat(math.Round(rate*100)/100, 'f', -1, 64) + "x"
}

// Modes renders the shuffle and repeat icons that are active.
func Modes(shuffle bool, repeat playback.RepeatMode) string {
	var parts []string
	if shuffle {
		parts = append(parts, icons.Shuffle())
	}
	switch repeat {
	case playback.RepeatAll:
		parts = append(parts, icons.RepeatAll())
	case playback.RepeatOne:
		parts = append(parts, icons.RepeatOne())
	case playback.RepeatOff:
	}
	return strings.Join(parts, " ")
}
