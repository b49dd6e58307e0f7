package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding ties an action to its keys and help text.
type Binding struct {
	Action  Action
	Key     key.Binding
	Context string // "global", "playback", "visualizer", "playlist"
}

func bind(action Action, context, help string, keys ...string) Binding {
	label := keys[0]
	if label == " " {
		label = "space"
	}
	return Binding{
		Action:  action,
		Context: context,
		Key:     key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, help)),
	}
}

// All contains the default key bindings.
var All = []Binding{
	// Global
	bind(ActionQuit, "global", "quit", "q", "ctrl+c"),
	bind(ActionHelp, "global", "help", "?"),

	// Playback
	bind(ActionPlayPause, "playback", "play/pause", " "),
	bind(ActionStop, "playback", "stop", "x"),
	bind(ActionNextTrack, "playback", "next", "right", "n"),
	bind(ActionPrevTrack, "playback", "previous", "left", "p"),
	bind(ActionSeekForward, "playback", "seek +10s", "shift+right", "L"),
	bind(ActionSeekBack, "playback", "seek -10s", "shift+left", "H"),
	bind(ActionVolumeUp, "playback", "volume +", "up", "+"),
	bind(ActionVolumeDown, "playback", "volume -", "down", "-"),
	bind(ActionToggleMute, "playback", "mute", "m"),
	bind(ActionToggleShuffle, "playback", "shuffle", "s"),
	bind(ActionCycleRepeat, "playback", "repeat", "r"),
	bind(ActionRateUp, "playback", "faster", "]"),
	bind(ActionRateDown, "playback", "slower", "["),
	bind(ActionRateReset, "playback", "normal speed", "\\"),
	bind(ActionDismissError, "playback", "dismiss error", "esc"),

	// Visualizer
	bind(ActionToggleVisualizer, "visualizer", "visualizer on/off", "v"),
	bind(ActionCycleVisualizer, "visualizer", "visualizer style", "V"),

	// Playlist
	bind(ActionMoveUp, "playlist", "cursor up", "k"),
	bind(ActionMoveDown, "playlist", "cursor down", "j"),
	bind(ActionJumpStart, "playlist", "first", "home", "g"),
	bind(ActionJumpEnd, "playlist", "last", "end", "G"),
	bind(ActionPlayItem, "playlist", "play", "enter"),
	bind(ActionRemove, "playlist", "remove", "d", "delete"),
	bind(ActionClear, "playlist", "clear", "D"),
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
