// Package ui holds layout constants shared by the view packages.
package ui

const (
	// ScrollMargin is the number of rows kept visible above and below the
	// playlist cursor.
	ScrollMargin = 3

	// BorderHeight is the vertical space consumed by a rounded panel border.
	BorderHeight = 2

	// HeaderHeight is the header line plus its separator.
	HeaderHeight = 2

	// PanelOverhead is border plus header: listHeight = panelHeight - PanelOverhead.
	PanelOverhead = BorderHeight + HeaderHeight

	// MinVisualizerHeight is the smallest visualizer panel worth drawing.
	MinVisualizerHeight = 4

	// MinPlaylistHeight is reserved for the playlist before the visualizer
	// gets the rest.
	MinPlaylistHeight = PanelOverhead + 3
)
