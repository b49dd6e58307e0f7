// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback actions
	ActionPlayPause     Action = "play_pause"
	ActionStop          Action = "stop"
	ActionNextTrack     Action = "next_track"
	ActionPrevTrack     Action = "prev_track"
	ActionSeekForward   Action = "seek_forward"
	ActionSeekBack      Action = "seek_back"
	ActionVolumeUp      Action = "volume_up"
	ActionVolumeDown    Action = "volume_down"
	ActionToggleMute    Action = "toggle_mute"
	ActionToggleShuffle Action = "toggle_shuffle"
	ActionCycleRepeat   Action = "cycle_repeat"
	ActionRateUp        Action = "rate_up"
	ActionRateDown      Action = "rate_down"
	ActionRateReset     Action = "rate_reset"
	ActionDismissError  Action = "dismiss_error"

	// Visualizer actions
	ActionToggleVisualizer Action = "toggle_visualizer"
	ActionCycleVisualizer  Action = "cycle_visualizer"

	// Playlist actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionPlayItem  Action = "play_item"
	ActionRemove    Action = "remove_item"
	ActionClear     Action = "clear_playlist"
)
