// Package icons holds the glyph sets used by the terminal UI.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play      string
	Pause     string
	Loading   string
	Shuffle   string
	RepeatAll string
	RepeatOne string
	Volume    string
	Muted     string
	Favorite  string
	Error     string
}

var (
	nerdIcons = Icons{
		Play:      "", // nf-fa-play
		Pause:     "", // nf-fa-pause
		Loading:   "󰔟", // nf-md-timer_sand
		Shuffle:   "󰒟", // nf-md-shuffle
		RepeatAll: "󰑖", // nf-md-repeat
		RepeatOne: "󰑘", // nf-md-repeat_once
		Volume:    "󰕾", // nf-md-volume_high
		Muted:     "󰝟", // nf-md-volume_off
		Favorite:  "󰣐", // nf-md-heart
		Error:     "", // nf-fa-warning
	}

	unicodeIcons = Icons{
		Play:      "▶",
		Pause:     "⏸",
		Loading:   "⏳",
		Shuffle:   "🔀",
		RepeatAll: "🔁",
		RepeatOne: "🔂",
		Volume:    "🔊",
		Muted:     "🔇",
		Favorite:  "♥",
		Error:     "⚠",
	}

	noneIcons = Icons{
		Play:      ">",
		Pause:     "||",
		Loading:   "...",
		Shuffle:   "[S]",
		RepeatAll: "[R]",
		RepeatOne: "[1]",
		Volume:    "vol",
		Muted:     "mute",
		Favorite:  "*",
		Error:     "!",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init selects the icon set. Unknown styles fall back to unicode.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

// Current returns the active icon set.
func Current() Icons { return current }

func Play() string      { return current.Play }
func Pause() string     { return current.Pause }
func Loading() string   { return current.Loading }
func Shuffle() string   { return current.Shuffle }
func RepeatAll() string { return current.RepeatAll }
func RepeatOne() string { return current.RepeatOne }
func Favorite() string  { return current.Favorite }
func Error() string     { return current.Error }

// Volume returns the volume icon, or the muted one.
func Volume(muted bool) string {
	if muted {
		return current.Muted
	}
	return current.Volume
}
