package playerbar

import (
	"strings"

	"github.com/llehouerou/waveform/internal/ui/styles"
)

const (
	filledBlock   = "━"
	bufferedBlock = "━"
	emptyBlock    = "─"
)

// ProgressBar renders a width-cell bar. played and buffered are fractions in
// [0, 1]; the buffered part beyond the playhead is drawn dimmer.
func ProgressBar(played, buffered float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled, ahead := Segments(played, buffered, width)

	st := styles.T().S()
	return st.Filled.Render(strings.Repeat(filledBlock, filled)) +
		st.Buffered.Render(strings.Repeat(bufferedBlock, ahead)) +
		st.Empty.Render(strings.Repeat(emptyBlock, width-filled-ahead))
}

// Segments splits width cells into played and buffered-ahead counts.
func Segments(played, buffered float64, width int) (filled, ahead int) {
	played = max(0, min(played, 1))
	buffered = max(played, min(buffered, 1))

	filled = int(float64(width) * played)
	ahead = int(float64(width)*buffered) - filled
	return filled, max(ahead, 0)
}
