// internal/playback/engine.go
package playback

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/player"
	"github.com/llehouerou/waveform/internal/playlist"
)

// Verify Engine implements Service at compile time.
var _ Service = (*Engine)(nil)

// Options configures an Engine.
type Options struct {
	// Restore seeds volume, mute, modes and rate. Nil uses defaults.
	Restore *Prefs
	// Preferences receives the persisted fields after each change.
	Preferences Preferences
	// IntN picks shuffle indices. Defaults to rand.IntN.
	IntN   func(n int) int
	Logger *zap.Logger
}

// Engine owns the playback state and drives a single media source.
//
// All mutation happens under mu. Media events are applied under the same
// lock in the order the source delivers them. Play is the only intent that
// waits on the source; it releases the lock while doing so and drops its
// result if the selection or play intent changed in the meantime.
type Engine struct {
	mu    sync.Mutex
	src   player.Interface
	unsub func()
	queue *playlist.Queue
	st    State

	lastVolume  float64 // last non-zero volume, restored on unmute
	loadGen     uint64  // bumped on every load
	playGen     uint64  // bumped on every play or pause intent
	seekGen     uint64  // seeks issued to the source
	playPending bool

	intn  func(n int) int
	prefs Preferences
	log   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	subsMu sync.Mutex
	subs   []*Subscription
}

// New creates an engine driving src. The engine subscribes to src until Close.
func New(src player.Interface, opts Options) *Engine {
	if opts.IntN == nil {
		opts.IntN = rand.IntN
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		src:    src,
		queue:  playlist.NewQueue(),
		st:     newState(),
		intn:   opts.IntN,
		prefs:  opts.Preferences,
		log:    opts.Logger,
		ctx:    ctx,
		cancel: cancel,
	}
	if r := opts.Restore; r != nil {
		e.st.Volume = clampVolume(r.Volume)
		e.st.Muted = r.Muted
		e.st.Shuffle = r.Shuffle
		e.st.Repeat = r.Repeat
		if r.Rate > 0 {
			e.st.Rate = player.ClampRate(r.Rate)
		}
	}
	e.lastVolume = e.st.Volume
	if e.lastVolume == 0 {
		e.lastVolume = DefaultVolume
	}

	src.SetVolume(e.st.Volume)
	src.SetMuted(e.st.Muted)
	src.SetRate(e.st.Rate)
	e.unsub = src.Subscribe(e.handleEvent)
	return e
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.clone()
}

// Playlist returns a copy of the playlist.
func (e *Engine) Playlist() []playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Tracks()
}

// SetPlaylist replaces the playlist. The selection follows the current track
// when it is still present. With nothing selected the first track is
// selected (loaded, not played).
func (e *Engine) SetPlaylist(tracks []playlist.Track) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	prev := e.st.clone()

	idx := e.queue.Replace(tracks...)
	e.queueChangedLocked()

	switch {
	case e.st.Track != nil && idx < 0:
		e.deselectLocked()
	case e.st.Track != nil:
		e.st.Index = idx
	}
	if e.st.Track == nil && !e.queue.IsEmpty() {
		_ = e.selectLocked(0)
	}
	e.notifyLocked(prev)
}

// AddToPlaylist appends tracks. With nothing selected the first added track
// is selected (loaded, not played).
func (e *Engine) AddToPlaylist(tracks ...playlist.Track) {
	if len(tracks) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	prev := e.st.clone()
	first := e.queue.Len()
	e.queue.Add(tracks...)
	e.queueChangedLocked()
	if e.st.Track == nil {
		_ = e.selectLocked(first)
	}
	e.notifyLocked(prev)
}

// RemoveFromPlaylist removes the entry at index. Removing the current track
// selects the entry that takes its place, or the first one when it was the
// last, and keeps playing if it was. Removing the only entry deselects.
func (e *Engine) RemoveFromPlaylist(ctx context.Context, index int) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	prev := e.st.clone()
	wasCurrent := e.st.Track != nil && index == e.st.Index
	wasPlaying := e.st.Playing || e.playPending
	if !e.queue.RemoveAt(index) {
		e.mu.Unlock()
		return ErrUnknownTrack
	}
	e.queueChangedLocked()

	var err error
	switch {
	case !wasCurrent:
		e.st.Index = e.queue.CurrentIndex()
	case e.queue.IsEmpty():
		e.deselectLocked()
	default:
		err = e.selectLocked(e.queue.CurrentIndex())
	}
	e.notifyLocked(prev)
	e.mu.Unlock()

	if err != nil || !wasCurrent || !wasPlaying || e.State().Track == nil {
		return err
	}
	return e.play(ctx, false)
}

// ClearPlaylist empties the playlist, pausing output and clearing the
// selection.
func (e *Engine) ClearPlaylist() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	prev := e.st.clone()
	e.haltLocked()
	e.queue.Clear()
	e.queueChangedLocked()
	if e.st.Track != nil {
		e.deselectLocked()
	}
	e.notifyLocked(prev)
}

// SelectTrack makes t current and loads it. index is a hint; when the entry
// at index is not t, t is looked up by ID.
func (e *Engine) SelectTrack(t playlist.Track, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	idx := e.resolveLocked(t, index)
	if idx < 0 {
		return ErrUnknownTrack
	}
	prev := e.st.clone()
	err := e.selectLocked(idx)
	e.notifyLocked(prev)
	return err
}

// PlayTrack selects t and starts playing it.
func (e *Engine) PlayTrack(ctx context.Context, t playlist.Track, index int) error {
	if err := e.SelectTrack(t, index); err != nil {
		return err
	}
	return e.play(ctx, false)
}

// Play starts or resumes the selection. With nothing selected it selects the
// first track. After a load failure it reloads the selection first.
func (e *Engine) Play(ctx context.Context) error {
	return e.play(ctx, false)
}

// play implements Play. replay skips the already-playing check so an ended
// track can be restarted without passing through a paused state.
func (e *Engine) play(ctx context.Context, replay bool) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	prev := e.st.clone()
	if e.st.Track == nil {
		if e.queue.IsEmpty() {
			e.mu.Unlock()
			return nil
		}
		if err := e.selectLocked(0); err != nil {
			e.notifyLocked(prev)
			e.mu.Unlock()
			return err
		}
	}
	if !replay && (e.st.Playing || e.playPending) {
		e.mu.Unlock()
		return nil
	}
	if e.st.Err != nil {
		kind := e.st.Err.Kind
		e.st.Err = nil
		if kind == KindLoad {
			e.resetTimesLocked()
			if err := e.loadLocked(); err != nil {
				e.notifyLocked(prev)
				e.mu.Unlock()
				return err
			}
		}
	}
	e.st.Ended = false
	e.playGen++
	gen, loadGen := e.playGen, e.loadGen
	e.playPending = true
	e.notifyLocked(prev)
	e.mu.Unlock()

	err := e.src.Play(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.playGen || loadGen != e.loadGen {
		// Superseded. Output that started anyway is paused unless a newer
		// play intent is waiting on it.
		if err == nil && !e.closed && !e.st.Playing && !e.playPending {
			e.src.Pause()
		}
		if err != nil && e.failedWithLocked(err) {
			// The source reported the same failure as an event first.
			return err
		}
		return nil
	}
	e.playPending = false
	prev = e.st.clone()
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.st.Playing = false
		e.notifyLocked(prev)
		return err
	case err != nil:
		kind := KindPlayback
		if isLoadError(err) {
			kind = KindLoad
			e.st.Loading = false
		}
		e.failLocked(kind, err)
		e.notifyLocked(prev)
		return err
	}
	e.st.Playing = true
	e.notifyLocked(prev)
	return nil
}

// Pause pauses output. No-op unless playing or starting.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || (!e.st.Playing && !e.playPending) {
		return
	}
	prev := e.st.clone()
	e.haltLocked()
	e.notifyLocked(prev)
}

// Stop pauses output and rewinds to the start, keeping the selection.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.st.Track == nil {
		return
	}
	prev := e.st.clone()
	e.haltLocked()
	e.st.Ended = false
	e.seekLocked(0)
	e.notifyLocked(prev)
}

// TogglePlayPause pauses when playing and plays otherwise.
func (e *Engine) TogglePlayPause(ctx context.Context) error {
	e.mu.Lock()
	active := e.st.Playing || e.playPending
	e.mu.Unlock()
	if active {
		e.Pause()
		return nil
	}
	return e.Play(ctx)
}

// Next moves to the next track. It always wraps at the end of the playlist,
// whatever the repeat mode. Playback continues if it was playing.
func (e *Engine) Next(ctx context.Context) error {
	return e.step(ctx, true)
}

// Previous restarts the current track when more than three seconds in,
// otherwise moves to the previous track, wrapping at the start.
func (e *Engine) Previous(ctx context.Context) error {
	return e.step(ctx, false)
}

func (e *Engine) step(ctx context.Context, forward bool) error {
	e.mu.Lock()
	if e.closed || e.queue.IsEmpty() {
		e.mu.Unlock()
		return nil
	}
	prev := e.st.clone()
	if !forward && e.st.Track != nil && e.st.Position > restartThreshold {
		e.seekLocked(0)
		e.st.Ended = false
		e.notifyLocked(prev)
		e.mu.Unlock()
		return nil
	}
	resume := e.st.Playing || e.playPending
	err := e.selectLocked(e.indexLocked(forward))
	e.notifyLocked(prev)
	e.mu.Unlock()

	if err != nil || !resume {
		return err
	}
	return e.play(ctx, false)
}

// Seek moves to pos clamped into [0, Duration]. Position updates immediately.
func (e *Engine) Seek(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.st.Track == nil {
		return
	}
	prev := e.st.clone()
	e.seekLocked(pos)
	e.st.Ended = false
	e.notifyLocked(prev)
}

// SetVolume sets the output level clamped into [0, 1]. A non-zero level
// also unmutes.
func (e *Engine) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	prev := e.st.clone()
	v = clampVolume(v)
	e.st.Volume = v
	e.src.SetVolume(v)
	if v > 0 {
		e.lastVolume = v
		if e.st.Muted {
			e.st.Muted = false
			e.src.SetMuted(false)
		}
	}
	e.savePrefsLocked()
	e.notifyLocked(prev)
}

// ToggleMute flips the mute flag. Unmuting at volume 0 restores the last
// non-zero volume.
func (e *Engine) ToggleMute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	prev := e.st.clone()
	e.st.Muted = !e.st.Muted
	if !e.st.Muted && e.st.Volume == 0 {
		e.st.Volume = e.lastVolume
		e.src.SetVolume(e.st.Volume)
	}
	e.src.SetMuted(e.st.Muted)
	e.savePrefsLocked()
	e.notifyLocked(prev)
}

// SetRate sets the playback speed clamped into [player.MinRate, player.MaxRate].
func (e *Engine) SetRate(r float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	prev := e.st.clone()
	e.st.Rate = player.ClampRate(r)
	e.src.SetRate(e.st.Rate)
	e.savePrefsLocked()
	e.notifyLocked(prev)
}

// ToggleShuffle flips shuffle and returns the new value.
func (e *Engine) ToggleShuffle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setModesLocked(e.st.Repeat, !e.st.Shuffle)
	return e.st.Shuffle
}

// SetShuffle enables or disables shuffle.
func (e *Engine) SetShuffle(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setModesLocked(e.st.Repeat, enabled)
}

// CycleRepeat advances Off → All → One → Off and returns the new mode.
func (e *Engine) CycleRepeat() RepeatMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setModesLocked(e.st.Repeat.Next(), e.st.Shuffle)
	return e.st.Repeat
}

// SetRepeatMode sets the repeat mode.
func (e *Engine) SetRepeatMode(mode RepeatMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setModesLocked(mode, e.st.Shuffle)
}

func (e *Engine) setModesLocked(mode RepeatMode, shuffle bool) {
	if e.closed || (mode == e.st.Repeat && shuffle == e.st.Shuffle) {
		return
	}
	prev := e.st.clone()
	e.st.Repeat = mode
	e.st.Shuffle = shuffle
	e.broadcast(func(s *Subscription) {
		offer(s, s.modeCh, ModeChange{RepeatMode: mode, Shuffle: shuffle})
	})
	e.savePrefsLocked()
	e.notifyLocked(prev)
}

// DismissError clears the captured error without retrying.
func (e *Engine) DismissError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.st.Err == nil {
		return
	}
	prev := e.st.clone()
	e.st.Err = nil
	e.notifyLocked(prev)
}

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	if e.isClosed() {
		sub.close()
		return sub
	}
	e.subs = append(e.subs, sub)
	return sub
}

func (e *Engine) isClosed() bool {
	select {
	case <-e.ctx.Done():
		return true
	default:
		return false
	}
}

// Close pauses output, stops listening to the source and ends all
// subscriptions. The source itself is left to its owner.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.haltLocked()
	unsub := e.unsub
	e.cancel()
	e.mu.Unlock()

	unsub()

	e.subsMu.Lock()
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsMu.Unlock()
	return nil
}

// handleEvent applies a source event. Events for anything but the current
// track, and time updates older than the latest issued seek, are dropped.
func (e *Engine) handleEvent(ev player.Event) {
	e.mu.Lock()
	if e.closed || e.st.Track == nil || ev.Track() != e.st.Track.ID {
		e.mu.Unlock()
		return
	}
	prev := e.st.clone()
	var then func() error

	switch ev := ev.(type) {
	case player.TimeUpdate:
		if ev.SeekGen < e.seekGen {
			e.mu.Unlock()
			return
		}
		e.st.Position = clampPosition(ev.Position, e.st.Duration)
		e.st.Buffered = clampPosition(ev.Buffered, e.st.Duration)
	case player.DurationChange:
		e.st.Duration = max(ev.Duration, UnknownDuration)
		e.st.Loading = false
		e.st.Position = clampPosition(e.st.Position, e.st.Duration)
	case player.Ended:
		then = e.endedLocked()
	case player.Error:
		if e.failedWithLocked(ev.Err) {
			// Already reported by a failed Play.
			e.mu.Unlock()
			return
		}
		kind := KindPlayback
		if isLoadError(ev.Err) {
			kind = KindLoad
		}
		e.haltLocked()
		e.st.Loading = false
		e.failLocked(kind, ev.Err)
	}
	e.notifyLocked(prev)
	e.mu.Unlock()

	if then != nil {
		if err := then(); err != nil {
			e.log.Debug("autoplay after end of track failed", zap.Error(err))
		}
	}
}

// endedLocked applies the end-of-track policy and returns the play call to
// run once the lock is released, if any.
func (e *Engine) endedLocked() func() error {
	wasPlaying := e.st.Playing || e.playPending
	switch {
	case e.st.Repeat == RepeatOne:
		e.seekLocked(0)
		if !wasPlaying {
			return nil
		}
		return func() error { return e.play(e.ctx, true) }
	case e.st.Repeat == RepeatAll || e.st.Shuffle || !e.queue.IsLast():
		if err := e.selectLocked(e.indexLocked(true)); err != nil || !wasPlaying {
			return nil
		}
		return func() error { return e.play(e.ctx, false) }
	default:
		e.haltLocked()
		e.st.Ended = true
		e.seekLocked(0)
		return nil
	}
}

// selectLocked makes the track at index current and loads it. A load
// failure is captured in the state and returned.
func (e *Engine) selectLocked(index int) error {
	prevTrack, prevIndex := e.st.Track, e.st.Index
	t := e.queue.JumpTo(index)
	if t == nil {
		return ErrUnknownTrack
	}
	e.haltLocked()
	e.st.Track = t
	e.st.Index = index
	e.st.Ended = false
	e.st.Err = nil
	e.resetTimesLocked()

	cur := *t
	e.broadcast(func(s *Subscription) {
		offer(s, s.trackCh, TrackChange{Previous: prevTrack, Current: &cur, PreviousIndex: prevIndex, Index: index})
	})
	e.savePrefsLocked()
	e.log.Debug("track selected", zap.String("id", t.ID), zap.Int("index", index))
	return e.loadLocked()
}

func (e *Engine) deselectLocked() {
	prevTrack, prevIndex := e.st.Track, e.st.Index
	e.haltLocked()
	e.loadGen++
	e.queue.Deselect()
	e.st.Track = nil
	e.st.Index = -1
	e.st.Loading = false
	e.st.Ended = false
	e.st.Err = nil
	e.st.Position = 0
	e.st.Duration = UnknownDuration
	e.st.Buffered = 0
	e.broadcast(func(s *Subscription) {
		offer(s, s.trackCh, TrackChange{Previous: prevTrack, PreviousIndex: prevIndex, Index: -1})
	})
	e.savePrefsLocked()
}

func (e *Engine) loadLocked() error {
	e.loadGen++
	e.st.Loading = true
	if err := e.src.Load(*e.st.Track); err != nil {
		e.st.Loading = false
		e.failLocked(KindLoad, err)
		return err
	}
	return nil
}

func (e *Engine) resetTimesLocked() {
	e.st.Position = 0
	e.st.Duration = UnknownDuration
	e.st.Buffered = 0
}

// haltLocked cancels any in-flight play and pauses the source if playing.
func (e *Engine) haltLocked() {
	e.playGen++
	e.playPending = false
	if e.st.Playing {
		e.src.Pause()
		e.st.Playing = false
	}
}

func (e *Engine) seekLocked(pos time.Duration) {
	pos = clampPosition(pos, e.st.Duration)
	e.seekGen++
	e.src.Seek(pos)
	e.st.Position = pos
	e.broadcast(func(s *Subscription) { offer(s, s.positionCh, PositionChange{Position: pos}) })
}

func (e *Engine) indexLocked(forward bool) int {
	switch {
	case e.st.Shuffle:
		return e.queue.ShuffleIndex(e.intn)
	case forward:
		return e.queue.NextIndex()
	default:
		return e.queue.PreviousIndex()
	}
}

func (e *Engine) resolveLocked(t playlist.Track, index int) int {
	if cur := e.queue.Track(index); cur != nil && cur.ID == t.ID {
		return index
	}
	return e.queue.IndexOf(t.ID)
}

func (e *Engine) failLocked(kind ErrorKind, err error) {
	e.st.Playing = false
	info := newErrorInfo(kind, e.st.Track, err)
	e.st.Err = info
	op := "play"
	if kind == KindLoad {
		op = "load"
	}
	var t *playlist.Track
	if e.st.Track != nil {
		c := *e.st.Track
		t = &c
	}
	e.log.Warn("playback failure", zap.String("op", op), zap.Error(err))
	e.broadcast(func(s *Subscription) {
		offer(s, s.errorCh, ErrorEvent{Operation: op, Track: t, Info: *info})
	})
}

// failedWithLocked reports whether err is the failure already held in the
// state, possibly wrapped.
func (e *Engine) failedWithLocked(err error) bool {
	if e.st.Err == nil || e.st.Err.Err == nil {
		return false
	}
	return errors.Is(e.st.Err.Err, err) || errors.Is(err, e.st.Err.Err)
}

func isLoadError(err error) bool {
	var loadErr *player.LoadError
	return errors.As(err, &loadErr)
}

func (e *Engine) savePrefsLocked() {
	if e.prefs == nil {
		return
	}
	p := Prefs{
		Volume:  e.st.Volume,
		Muted:   e.st.Muted,
		Shuffle: e.st.Shuffle,
		Repeat:  e.st.Repeat,
		Rate:    e.st.Rate,
	}
	if e.st.Track != nil {
		p.TrackID = e.st.Track.ID
	}
	e.prefs.SavePreferences(p)
}

func (e *Engine) queueChangedLocked() {
	qc := QueueChange{Tracks: e.queue.Tracks(), Index: e.queue.CurrentIndex()}
	e.broadcast(func(s *Subscription) { offer(s, s.queueCh, qc) })
}

func (e *Engine) notifyLocked(prev State) {
	cur := e.st.clone()
	e.broadcast(func(s *Subscription) {
		offer(s, s.stateCh, StateChange{Previous: prev, Current: cur})
	})
}

func (e *Engine) broadcast(send func(s *Subscription)) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for _, s := range e.subs {
		send(s)
	}
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(v, 1))
}
