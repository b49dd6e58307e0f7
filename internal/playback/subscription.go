package playback

import "sync/atomic"

// eventBufferSize is the per-kind backlog a subscriber may accumulate.
const eventBufferSize = 16

// Subscription is one listener's view of the engine. Every event kind has
// its own buffered channel; the engine never waits on a slow reader and
// drops events of a kind whose buffer is full. Done closes when the engine
// closes.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	positionCh chan PositionChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}

	dropped atomic.Uint64
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged, s.TrackChanged, s.PositionChanged = s.stateCh, s.trackCh, s.positionCh
	s.QueueChanged, s.ModeChanged, s.Error = s.queueCh, s.modeCh, s.errorCh
	s.Done = s.doneCh
	return s
}

// Dropped returns how many events this subscriber missed because it fell
// behind.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// offer delivers v on ch unless ch is full.
func offer[T any](s *Subscription, ch chan T, v T) {
	select {
	case ch <- v:
	default:
		s.dropped.Add(1)
	}
}
