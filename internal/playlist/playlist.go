package playlist

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// Track describes one playable item. It is treated as immutable once added to
// a playlist: accessors hand out copies.
type Track struct {
	ID       string // stable identity, unique within a playlist
	Title    string
	Artist   string
	Album    string        // optional
	Duration time.Duration // catalog hint, 0 if unknown until loaded
	URL      string        // source locator: file path, file:// or http(s):// URL
	Artwork  string        // optional artwork locator
	Genre    string
	Favorite bool
}

// Playlist is an ordered list of tracks. Order is significant and the list
// may be empty.
type Playlist struct {
	tracks []Track
}

func NewPlaylist() *Playlist {
	return &Playlist{}
}

func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

func (p *Playlist) inRange(i int) bool {
	return i >= 0 && i < len(p.tracks)
}

// Remove deletes the track at index, reporting whether index was valid.
func (p *Playlist) Remove(index int) bool {
	if !p.inRange(index) {
		return false
	}
	p.tracks = slices.Delete(p.tracks, index, index+1)
	return true
}

func (p *Playlist) Clear() {
	p.tracks = nil
}

// Tracks returns a copy of the list, never nil.
func (p *Playlist) Tracks() []Track {
	return append(make([]Track, 0, len(p.tracks)), p.tracks...)
}

// Track returns a copy of the track at index, or nil when out of range.
func (p *Playlist) Track(index int) *Track {
	if !p.inRange(index) {
		return nil
	}
	t := p.tracks[index]
	return &t
}

// IndexOf returns the position of the track with the given ID, or -1.
func (p *Playlist) IndexOf(id string) int {
	_, idx, ok := lo.FindIndexOf(p.tracks, func(t Track) bool { return t.ID == id })
	if !ok {
		return -1
	}
	return idx
}

func (p *Playlist) Len() int {
	return len(p.tracks)
}
