// internal/player/state.go
package player

// State is the output state of a Player.
//
//	┌──────────┐  remote load   ┌──────────┐
//	│  Stopped │ ──────────────▶│  Loading │
//	└──────────┘                └──────────┘
//	   ▲  │                          │ fetched
//	   │  │ local load               ▼
//	   │  └────────────────────▶┌──────────┐
//	   │                        │  Paused  │◀──┐
//	   │                        └──────────┘   │
//	   │ close, failed load      play │        │ pause, ended
//	   │                              ▼        │
//	   │                        ┌──────────┐   │
//	   └────────────────────────│  Playing │───┘
//	                            └──────────┘
//
// Stopped means nothing is loaded. Loading means an http(s) resource is
// being fetched. A freshly loaded resource waits in Paused until Play.
type State int

const (
	Stopped State = iota
	Playing
	Paused
	Loading
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Loading:
		return "Loading"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a resource is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
