package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Resolver maps key presses to actions.
type Resolver struct {
	bindings []Binding
	byAction map[Action]key.Binding
}

// NewResolver creates a resolver from bindings. Earlier bindings win when
// keys overlap.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: bindings,
		byAction: make(map[Action]key.Binding, len(bindings)),
	}
	for _, b := range bindings {
		r.byAction[b.Action] = b.Key
	}
	return r
}

// Resolve returns the action for a key press, or empty string if not bound.
func (r *Resolver) Resolve(msg tea.KeyMsg) Action {
	for _, b := range r.bindings {
		if key.Matches(msg, b.Key) {
			return b.Action
		}
	}
	return ""
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action].Keys()
}

// ShortHelp implements help.KeyMap.
func (r *Resolver) ShortHelp() []key.Binding {
	return r.keys(ActionPlayPause, ActionNextTrack, ActionPrevTrack, ActionToggleVisualizer, ActionHelp, ActionQuit)
}

// FullHelp implements help.KeyMap, one column per context.
func (r *Resolver) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	for _, ctx := range []string{"playback", "visualizer", "playlist", "global"} {
		var col []key.Binding
		for _, b := range r.bindings {
			if b.Context == ctx {
				col = append(col, b.Key)
			}
		}
		if len(col) > 0 {
			cols = append(cols, col)
		}
	}
	return cols
}

func (r *Resolver) keys(actions ...Action) []key.Binding {
	out := make([]key.Binding, 0, len(actions))
	for _, a := range actions {
		if b, ok := r.byAction[a]; ok {
			out = append(out, b)
		}
	}
	return out
}
