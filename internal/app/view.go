// internal/app/view.go
package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/waveform/internal/ui"
	"github.com/llehouerou/waveform/internal/ui/playerbar"
	"github.com/llehouerou/waveform/internal/ui/spectrum"
	"github.com/llehouerou/waveform/internal/ui/styles"
)

// View renders the application UI.
func (m Model) View() string {
	if m.Width <= 0 || m.Height <= 0 {
		return ""
	}
	_, vizHeight := m.layout()

	parts := []string{m.playlist.View(m.State)}
	if vizHeight > 0 {
		parts = append(parts, m.renderVisualizer(vizHeight))
	}
	parts = append(parts,
		playerbar.Render(m.State, m.Width),
		m.help.View(m.keys),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout splits the space above the player bar between the playlist and
// the visualizer. The visualizer is dropped when there is no room for it.
func (m Model) layout() (playlistHeight, vizHeight int) {
	fixed := playerbar.Height(m.State) + lipgloss.Height(m.help.View(m.keys))
	body := max(m.Height-fixed, 0)
	if !m.Session.HasVisualizer() {
		return body, 0
	}

	vizHeight = body / 2
	if body-vizHeight < ui.MinPlaylistHeight {
		vizHeight = body - ui.MinPlaylistHeight
	}
	if vizHeight < ui.MinVisualizerHeight+ui.BorderHeight {
		return body, 0
	}
	return body - vizHeight, vizHeight
}

func (m *Model) resize() {
	playlistHeight, _ := m.layout()
	m.playlist.SetSize(m.Width, playlistHeight)
}

func (m Model) renderVisualizer(height int) string {
	w := m.Width - ui.BorderHeight
	h := height - ui.BorderHeight

	var content string
	switch {
	case !m.VisualizerOn():
		content = spectrum.Placeholder("visualizer off (v)", w, h)
	case m.Frame.IsZero():
		content = spectrum.Placeholder("no signal", w, h)
	default:
		content = spectrum.Render(m.Frame, m.style, w, h)
	}
	return styles.PanelStyle(false).Width(w).Render(content)
}
