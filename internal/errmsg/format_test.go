package errmsg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpTrackLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.op, tt.err))
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpTrackLoad,
			context:  "Ocean Waves",
			expected: "",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpTrackLoad,
			err:      errors.New("unsupported format"),
			expected: "Failed to load track: unsupported format",
		},
		{
			name:     "includes quoted context",
			op:       OpTrackLoad,
			context:  "Ocean Waves",
			err:      errors.New("file not found"),
			expected: "Failed to load track 'Ocean Waves': file not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatWith(tt.op, tt.context, tt.err))
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpTrackLoad, OpPlaybackStart, OpPlaybackSeek,
		OpPlaylistLoad, OpPlaylistSave,
		OpStateLoad, OpStateSave,
		OpVisualizerInit,
		OpConfigLoad, OpInitialize,
	}
	testErr := errors.New("test error")
	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			assert.NotEmpty(t, op)
			assert.Equal(t, "Failed to "+string(op)+": test error", Format(op, testErr))
		})
	}
}
