package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/waveform/internal/playlist"
)

// pendingLoad is a remote load running in the background. done closes when
// it finished, failed or was abandoned; err is set before done closes.
type pendingLoad struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Load replaces the current resource with t. The previous resource is
// released even when the new one fails to decode.
//
// Local files are opened and decoded before Load returns. http(s) locators
// return at once in the Loading state: the download and decode run in the
// background and end with DurationChange or an Error carrying a *LoadError.
// A later Load or Close abandons a download in flight.
func (p *Player) Load(t playlist.Track) error {
	if p.closed.Load() {
		return &LoadError{URL: t.URL, Err: ErrClosed}
	}
	if strings.TrimSpace(t.URL) == "" {
		return &LoadError{URL: t.URL, Err: ErrEmptyLocator}
	}
	ext := playlist.Ext(t.URL)
	if !playlist.IsMusicFile(t.URL) {
		return &LoadError{URL: t.URL, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}
	if isRemote(t.URL) {
		return p.loadRemote(t, ext)
	}

	rc, err := openLocal(t.URL)
	if err != nil {
		p.unload()
		return &LoadError{URL: t.URL, Err: err}
	}
	streamer, format, err := decode(ext, rc)
	if err != nil {
		_ = rc.Close()
		p.unload()
		return &LoadError{URL: t.URL, Err: err}
	}

	p.mu.Lock()
	p.unloadLocked()
	p.loadGen++
	p.install(t, streamer, format)
	dur := p.durationLocked()
	p.mu.Unlock()

	p.ring.reset()
	p.emit(DurationChange{TrackID: t.ID, Duration: dur})
	return nil
}

func (p *Player) loadRemote(t playlist.Track, ext string) error {
	p.mu.Lock()
	if p.closed.Load() {
		p.mu.Unlock()
		return &LoadError{URL: t.URL, Err: ErrClosed}
	}
	p.unloadLocked()
	p.loadGen++
	ctx, cancel := context.WithCancel(context.Background())
	pl := &pendingLoad{cancel: cancel, done: make(chan struct{})}
	p.pending = pl
	p.track = t
	p.state = Loading
	p.wg.Add(1)
	p.mu.Unlock()

	go p.fetchAndDecode(ctx, pl, t, ext)
	return nil
}

func (p *Player) fetchAndDecode(ctx context.Context, pl *pendingLoad, t playlist.Track, ext string) {
	defer p.wg.Done()
	defer close(pl.done)
	defer pl.cancel()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	rc, err := p.fetch(ctx, t.URL)
	if err == nil {
		streamer, format, err = decode(ext, rc)
	}

	p.mu.Lock()
	if p.pending != pl {
		// Abandoned by a newer Load or Close.
		p.mu.Unlock()
		if streamer != nil {
			_ = streamer.Close()
		}
		return
	}
	p.pending = nil
	if err != nil {
		pl.err = &LoadError{URL: t.URL, Err: err}
		p.track = playlist.Track{}
		p.state = Stopped
		p.mu.Unlock()
		p.emit(Error{TrackID: t.ID, Err: pl.err})
		return
	}
	p.install(t, streamer, format)
	dur := p.durationLocked()
	p.mu.Unlock()

	p.ring.reset()
	p.emit(DurationChange{TrackID: t.ID, Duration: dur})
}

// install makes a decoded resource current, paused at its start.
func (p *Player) install(t playlist.Track, streamer beep.StreamSeekCloser, format beep.Format) {
	p.track = t
	p.streamer = streamer
	p.format = format
	p.state = Paused
}

func (p *Player) unload() {
	p.mu.Lock()
	p.unloadLocked()
	p.loadGen++
	p.mu.Unlock()
}

func isRemote(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

// openLocal opens a filesystem path or file:// URL.
func openLocal(locator string) (io.ReadSeekCloser, error) {
	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		return os.Open(locator)
	}
	if u.Scheme == "file" {
		return os.Open(u.Path)
	}
	return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
}

// fetch downloads a remote resource into memory so decoders can seek it.
// Bodies larger than Options.MaxRemoteBytes are rejected.
func (p *Player) fetch(ctx context.Context, locator string) (io.ReadSeekCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}
	limit := p.opts.MaxRemoteBytes
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return nopCloser{bytes.NewReader(data)}, nil
}

type nopCloser struct {
	io.ReadSeeker
}

func (nopCloser) Close() error { return nil }

func decode(ext string, rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case playlist.ExtMP3:
		return decodeGoMP3(rc)
	case playlist.ExtFLAC:
		// Some taggers prepend ID3v2 to FLAC files.
		if err := skipID3v2(rc); err != nil {
			return nil, beep.Format{}, err
		}
		s, f, err := flac.Decode(rc)
		if err != nil {
			return nil, beep.Format{}, err
		}
		return withCloser(s, rc), f, nil
	case playlist.ExtWAV:
		s, f, err := wav.Decode(rc)
		if err != nil {
			return nil, beep.Format{}, err
		}
		return withCloser(s, rc), f, nil
	case playlist.ExtOGG:
		return vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// closingStreamer also closes the underlying reader, which some decoders
// leave open.
type closingStreamer struct {
	beep.StreamSeekCloser
	rc io.Closer
}

func withCloser(s beep.StreamSeekCloser, rc io.Closer) beep.StreamSeekCloser {
	return &closingStreamer{StreamSeekCloser: s, rc: rc}
}

func (c *closingStreamer) Close() error {
	err := c.StreamSeekCloser.Close()
	if cerr := c.rc.Close(); err == nil {
		err = cerr
	}
	return err
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the stream.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n == 0 {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Syncsafe size: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
