package player

import (
	"context"
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// Play starts or resumes output of the loaded resource. After Ended, Play
// queues the resource again from the pending seek target, or from its
// current position when no seek is pending. While a remote load is in
// flight Play waits for it, without holding the player lock.
func (p *Player) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &PlaybackError{Err: err}
	}
	if p.closed.Load() {
		return &PlaybackError{Err: ErrClosed}
	}

	p.mu.Lock()
	for p.pending != nil {
		pl := p.pending
		p.mu.Unlock()
		select {
		case <-pl.done:
		case <-ctx.Done():
			return &PlaybackError{Err: ctx.Err()}
		case <-p.done:
			return &PlaybackError{Err: ErrClosed}
		}
		p.mu.Lock()
		if p.pending == nil && p.streamer == nil && pl.err != nil {
			p.mu.Unlock()
			return &PlaybackError{Err: pl.err}
		}
	}
	defer p.mu.Unlock()
	if p.streamer == nil {
		return &PlaybackError{Err: ErrNotLoaded}
	}
	if p.state == Playing {
		return nil
	}
	if err := initSpeaker(p.outRate); err != nil {
		return &PlaybackError{Err: err}
	}

	if p.queued {
		speaker.Lock()
		p.ctrl.Paused = false
		speaker.Unlock()
	} else {
		// The streamer is off the speaker: land a pending seek now so the
		// new pipeline starts from the target instead of the exhausted end.
		if err := p.landSeekLocked(); err != nil {
			return &PlaybackError{Err: err}
		}
		speaker.Play(p.pipelineLocked())
		p.queued = true
	}
	p.state = Playing
	p.lastPos = -1
	return nil
}

// Pause pauses output. No-op unless playing.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.CanPause() || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Seek moves to pos clamped into [0, Duration()].
// Non-blocking: only the most recent pending request is applied.
func (p *Player) Seek(pos time.Duration) {
	p.mu.Lock()
	p.seekIssued++
	req := seekRequest{gen: p.seekIssued, loadGen: p.loadGen}
	if p.streamer == nil {
		p.seekApplied = p.seekIssued
		p.mu.Unlock()
		return
	}
	req.pos = max(0, min(pos, p.durationLocked()))
	p.seekTarget = req.pos
	p.seekPending = true
	p.mu.Unlock()

	select {
	case p.seekChan <- req:
	default:
		// Replace the pending request.
		select {
		case <-p.seekChan:
		default:
		}
		select {
		case p.seekChan <- req:
		default:
		}
	}
}

func (p *Player) seekLoop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case req := <-p.seekChan:
			p.doSeek(req)
		}
	}
}

func (p *Player) doSeek(req seekRequest) {
	p.mu.Lock()
	var failed error
	// A request already landed by Play is not applied twice.
	if req.gen > p.seekApplied {
		if req.loadGen == p.loadGen && p.streamer != nil {
			failed = p.seekStreamerLocked(req.pos)
		}
		p.seekApplied = req.gen
	}
	if p.seekApplied >= p.seekIssued {
		p.seekPending = false
	}
	id := p.track.ID
	p.mu.Unlock()

	if failed != nil {
		p.emit(Error{TrackID: id, Err: &PlaybackError{Err: failed}})
	}
}

func (p *Player) seekStreamerLocked(pos time.Duration) error {
	n := min(p.format.SampleRate.N(pos), p.streamer.Len())
	speaker.Lock()
	err := p.streamer.Seek(n)
	speaker.Unlock()
	p.lastPos = -1
	return err
}

// landSeekLocked applies the pending seek target synchronously and marks
// every issued request as applied.
func (p *Player) landSeekLocked() error {
	if !p.seekPending {
		return nil
	}
	p.seekApplied = p.seekIssued
	p.seekPending = false
	return p.seekStreamerLocked(p.seekTarget)
}
