package player

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLocator      = errors.New("empty source locator")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNotLoaded         = errors.New("no track loaded")
	ErrTapInUse          = errors.New("sample tap already open")
	ErrClosed            = errors.New("player closed")
	ErrHTTPStatus        = errors.New("unexpected http status")
	ErrTooLarge          = errors.New("remote resource too large")
)

// LoadError reports that a track could not be loaded.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PlaybackError reports that output could not start or resume.
type PlaybackError struct {
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback: %v", e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
