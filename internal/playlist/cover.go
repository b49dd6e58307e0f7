package playlist

import (
	"os"
	"path/filepath"
	"strings"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// FindCoverArt looks for album art in the same directory as a local track.
// Returns the path to the art file, or empty string if not found.
func FindCoverArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LocalPath returns the filesystem path of a local track, or "" for
// remote ones.
func (t Track) LocalPath() string {
	switch {
	case strings.HasPrefix(t.URL, "file://"):
		return strings.TrimPrefix(t.URL, "file://")
	case strings.Contains(t.URL, "://"):
		return ""
	default:
		return t.URL
	}
}

// ArtworkPath returns the track artwork, falling back to a cover file next
// to a local track.
func (t Track) ArtworkPath() string {
	if t.Artwork != "" {
		return t.Artwork
	}
	if p := t.LocalPath(); p != "" {
		return FindCoverArt(p)
	}
	return ""
}
