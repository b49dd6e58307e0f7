package playback

import (
	"errors"

	"github.com/llehouerou/waveform/internal/errmsg"
	"github.com/llehouerou/waveform/internal/playlist"
)

var (
	ErrClosed       = errors.New("playback engine closed")
	ErrUnknownTrack = errors.New("track not in playlist")
)

// ErrorKind classifies a failure captured in State.Err.
type ErrorKind int

const (
	KindLoad ErrorKind = iota
	KindPlayback
)

func (k ErrorKind) String() string {
	switch k {
	case KindLoad:
		return "LoadError"
	case KindPlayback:
		return "PlaybackError"
	default:
		return "Unknown"
	}
}

// ErrorInfo is a dismissible, user-visible failure.
type ErrorInfo struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func newErrorInfo(kind ErrorKind, t *playlist.Track, err error) *ErrorInfo {
	op := errmsg.OpPlaybackStart
	if kind == KindLoad {
		op = errmsg.OpTrackLoad
	}
	var title string
	if t != nil {
		title = t.Title
	}
	return &ErrorInfo{
		Kind:    kind,
		Message: errmsg.FormatWith(op, title, err),
		Err:     err,
	}
}
