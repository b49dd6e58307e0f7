// Package playlistview renders the playlist panel and moves its cursor.
package playlistview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/waveform/internal/icons"
	"github.com/llehouerou/waveform/internal/keymap"
	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/playlist"
	"github.com/llehouerou/waveform/internal/ui"
	"github.com/llehouerou/waveform/internal/ui/render"
	"github.com/llehouerou/waveform/internal/ui/styles"
)

// PlayMsg asks the app to play the track at Index.
type PlayMsg struct {
	Index int
}

// RemoveMsg asks the app to remove the track at Index.
type RemoveMsg struct {
	Index int
}

// ClearMsg asks the app to empty the playlist.
type ClearMsg struct{}

// Model is the playlist panel state.
type Model struct {
	tracks  []playlist.Track
	current int
	cursor  cursor
	width   int
	height  int
	focused bool
	synced  bool
}

// New creates an empty playlist panel.
func New() Model {
	return Model{
		current: -1,
		cursor:  cursor{margin: ui.ScrollMargin},
		focused: true,
	}
}

// SetSize sets the outer panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.cursor.scroll(len(m.tracks), m.listHeight())
}

// SetFocused sets whether the panel is focused.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// SetTracks replaces the listed tracks.
func (m *Model) SetTracks(tracks []playlist.Track) {
	m.tracks = tracks
	m.synced = false
	m.cursor.jump(m.cursor.pos, len(tracks), m.listHeight())
}

// SetCurrent marks the track at index as the selected one. The cursor
// follows the first time a track is marked after the list changes.
func (m *Model) SetCurrent(index int) {
	m.current = index
	if !m.synced && index >= 0 {
		m.cursor.jump(index, len(m.tracks), m.listHeight())
		m.synced = true
	}
}

// Cursor returns the highlighted index.
func (m Model) Cursor() int { return m.cursor.pos }

// Len returns the number of listed tracks.
func (m Model) Len() int { return len(m.tracks) }

// HandleAction applies a playlist action. It reports whether the action was
// one of the panel's.
func (m Model) HandleAction(a keymap.Action) (Model, tea.Cmd, bool) {
	n, h := len(m.tracks), m.listHeight()
	switch a {
	case keymap.ActionMoveUp:
		m.cursor.move(-1, n, h)
	case keymap.ActionMoveDown:
		m.cursor.move(1, n, h)
	case keymap.ActionJumpStart:
		m.cursor.jump(0, n, h)
	case keymap.ActionJumpEnd:
		m.cursor.jump(n-1, n, h)
	case keymap.ActionPlayItem:
		if n == 0 {
			return m, nil, true
		}
		idx := m.cursor.pos
		return m, func() tea.Msg { return PlayMsg{Index: idx} }, true
	case keymap.ActionRemove:
		if n == 0 {
			return m, nil, true
		}
		idx := m.cursor.pos
		return m, func() tea.Msg { return RemoveMsg{Index: idx} }, true
	case keymap.ActionClear:
		return m, func() tea.Msg { return ClearMsg{} }, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m Model) listHeight() int {
	return max(m.height-ui.PanelOverhead, 0)
}

// View renders the panel.
func (m Model) View(st playback.State) string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	inner := m.width - ui.BorderHeight
	h := m.listHeight()

	lines := make([]string, 0, h+2)
	lines = append(lines, m.header(st, inner), render.Separator(inner))
	for row := range h {
		idx := m.cursor.offset + row
		if idx >= len(m.tracks) {
			lines = append(lines, render.Blank(inner))
			continue
		}
		lines = append(lines, m.line(idx, inner))
	}

	return styles.PanelStyle(m.focused).
		Width(inner).
		Render(strings.Join(lines, "\n"))
}

func (m Model) header(st playback.State, width int) string {
	pos := m.current + 1
	title := fmt.Sprintf("Playlist (%d/%d)", max(pos, 0), len(m.tracks))
	if len(m.tracks) == 0 {
		title = "Playlist (empty)"
	}

	var modes []string
	if st.Shuffle {
		modes = append(modes, icons.Shuffle())
	}
	switch st.Repeat {
	case playback.RepeatAll:
		modes = append(modes, icons.RepeatAll())
	case playback.RepeatOne:
		modes = append(modes, icons.RepeatOne())
	case playback.RepeatOff:
	}
	right := strings.Join(modes, " ")
	left := render.Fit(title, max(width-lipgloss.Width(right)-1, 0))

	return styles.T().S().Title.Render(left) + " " + styles.T().S().Accent.Render(right)
}

// line renders "▶ Title   Artist   3:58" for the track at idx.
func (m Model) line(idx, width int) string {
	t := m.tracks[idx]

	prefix := "  "
	if idx == m.current {
		prefix = icons.Play() + " "
		prefix = render.Fit(prefix, 2)
	}
	suffix := ""
	if t.Favorite {
		suffix = icons.Favorite()
	}
	dur := ""
	if t.Duration > 0 {
		dur = playback.FormatTime(t.Duration)
	}
	right := render.Fit(suffix, 2) + fmt.Sprintf("%6s", dur)

	content := max(width-lipgloss.Width(prefix)-lipgloss.Width(right), 0)
	titleWidth := content * 3 / 5
	text := render.Fit(t.Title, titleWidth) + render.Fit(t.Artist, content-titleWidth)

	return m.rowStyle(idx).Render(prefix + text + right)
}

func (m Model) rowStyle(idx int) lipgloss.Style {
	st := styles.T().S()
	isCursor := idx == m.cursor.pos && m.focused
	switch {
	case isCursor && idx == m.current:
		return st.Cursor.Inherit(st.Playing)
	case isCursor:
		return st.Cursor
	case idx == m.current:
		return st.Playing
	default:
		return st.Base
	}
}
