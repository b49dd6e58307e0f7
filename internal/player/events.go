package player

import "time"

// Event is emitted by a media source. Every event carries the ID of the track
// whose load produced it so consumers can drop events from stale loads.
type Event interface {
	Track() string
}

// TimeUpdate reports the current playback position.
//
// SeekGen is the number of Seek calls the source had applied when Position
// was sampled. A consumer that issued more seeks than SeekGen is looking at a
// position that predates its latest seek.
type TimeUpdate struct {
	TrackID  string
	Position time.Duration
	Buffered time.Duration
	SeekGen  uint64
}

// DurationChange reports that the duration of the loaded resource is known.
type DurationChange struct {
	TrackID  string
	Duration time.Duration
}

// Ended reports that output reached the end of the resource.
type Ended struct {
	TrackID string
}

// Error reports an asynchronous failure of the loaded resource.
type Error struct {
	TrackID string
	Err     error
}

func (e TimeUpdate) Track() string     { return e.TrackID }
func (e DurationChange) Track() string { return e.TrackID }
func (e Ended) Track() string          { return e.TrackID }
func (e Error) Track() string          { return e.TrackID }
