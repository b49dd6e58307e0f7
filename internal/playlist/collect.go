package playlist

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
)

// Extensions the player can decode.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtWAV  = ".wav"
	ExtOGG  = ".ogg"
)

// IsMusicFile reports whether the locator has a supported audio extension.
func IsMusicFile(locator string) bool {
	switch Ext(locator) {
	case ExtMP3, ExtFLAC, ExtWAV, ExtOGG:
		return true
	}
	return false
}

// Ext returns the lower-cased extension of a path or URL locator.
func Ext(locator string) string {
	if u, err := url.Parse(locator); err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		return strings.ToLower(path.Ext(u.Path))
	}
	return strings.ToLower(filepath.Ext(strings.TrimPrefix(locator, "file://")))
}

// TrackID derives a stable track ID from a locator.
func TrackID(locator string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(locator)).String()
}

// FromPath creates a track from a file path by reading its tags.
// Falls back to the file name when tags cannot be read.
func FromPath(p string) Track {
	t := Track{
		ID:    TrackID(p),
		URL:   p,
		Title: strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
	}

	f, err := os.Open(p)
	if err != nil {
		return t
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return t
	}
	if m.Title() != "" {
		t.Title = m.Title()
	}
	t.Artist = m.Artist()
	t.Album = m.Album()
	t.Genre = m.Genre()
	return t
}

// FromURL creates a track for a remote locator. Title defaults to the last
// path segment.
func FromURL(locator string) Track {
	title := locator
	if u, err := url.Parse(locator); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			title = strings.TrimSuffix(base, path.Ext(base))
		}
	}
	return Track{ID: TrackID(locator), URL: locator, Title: title}
}

// Collect builds tracks from command-line style arguments: files, directories
// (walked recursively, sorted by path) and http(s) URLs.
func Collect(args ...string) ([]Track, error) {
	var tracks []Track
	for _, arg := range args {
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			tracks = append(tracks, FromURL(arg))
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", arg, err)
		}
		if !info.IsDir() {
			if IsMusicFile(arg) {
				tracks = append(tracks, FromPath(arg))
			}
			continue
		}
		dirTracks, err := collectDir(arg)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, dirTracks...)
	}
	return tracks, nil
}

func collectDir(root string) ([]Track, error) {
	var tracks []Track
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip unreadable entries, keep walking
			return nil //nolint:nilerr // intentionally skipping errors
		}
		if d.IsDir() || !IsMusicFile(p) {
			return nil
		}
		tracks = append(tracks, FromPath(p))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].URL < tracks[j].URL
	})
	return tracks, nil
}

// FormatDuration formats a duration as m:ss. Negative durations format as 0:00.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
