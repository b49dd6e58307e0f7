package player

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/waveform/internal/playlist"
)

func TestState_Predicates(t *testing.T) {
	tests := []struct {
		state     State
		name      string
		active    bool
		canPause  bool
		canResume bool
	}{
		{Stopped, "Stopped", false, false, false},
		{Playing, "Playing", true, true, false},
		{Paused, "Paused", true, false, true},
		{Loading, "Loading", false, false, false},
		{State(99), "Unknown", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.state.String())
			assert.Equal(t, tt.active, tt.state.IsActive())
			assert.Equal(t, tt.canPause, tt.state.CanPause())
			assert.Equal(t, tt.canResume, tt.state.CanResume())
		})
	}
}

func TestMock_StateFollowsControls(t *testing.T) {
	m := NewMock()
	assert.Equal(t, Stopped, m.State())
	assert.Error(t, m.Play(t.Context()))

	assert.NoError(t, m.Load(playlist.Track{ID: "1", URL: "/audio/ocean-waves.mp3"}))
	assert.Equal(t, Paused, m.State())

	assert.NoError(t, m.Play(t.Context()))
	assert.Equal(t, Playing, m.State())

	m.Pause()
	assert.Equal(t, Paused, m.State())
}
