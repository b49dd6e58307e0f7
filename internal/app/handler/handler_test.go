package handler

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/waveform/internal/keymap"
)

type pingMsg struct{}

func only(want keymap.Action, res Result, calls *[]keymap.Action) Handler {
	return func(a keymap.Action) Result {
		*calls = append(*calls, want)
		if a != want {
			return NotHandled
		}
		return res
	}
}

func TestResults(t *testing.T) {
	assert.False(t, NotHandled.Handled)
	assert.Nil(t, NotHandled.Cmd)
	assert.True(t, HandledNoCmd.Handled)
	assert.Nil(t, HandledNoCmd.Cmd)

	r := Handled(func() tea.Msg { return pingMsg{} })
	assert.True(t, r.Handled)
	assert.Equal(t, pingMsg{}, r.Cmd())
}

func TestChain_FirstHandlerWins(t *testing.T) {
	var calls []keymap.Action
	cmd := func() tea.Msg { return pingMsg{} }

	ok, got := Chain(keymap.ActionStop,
		only(keymap.ActionPlayPause, HandledNoCmd, &calls),
		only(keymap.ActionStop, Handled(cmd), &calls),
		only(keymap.ActionStop, HandledNoCmd, &calls),
	)

	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Equal(t, []keymap.Action{keymap.ActionPlayPause, keymap.ActionStop}, calls)
}

func TestChain_NoneHandles(t *testing.T) {
	var calls []keymap.Action
	ok, cmd := Chain(keymap.ActionQuit, only(keymap.ActionStop, HandledNoCmd, &calls))
	assert.False(t, ok)
	assert.Nil(t, cmd)
	assert.Len(t, calls, 1)
}

func TestChain_EmptyAction(t *testing.T) {
	var calls []keymap.Action
	ok, _ := Chain("", only(keymap.ActionStop, HandledNoCmd, &calls))
	assert.False(t, ok)
	assert.Empty(t, calls)
}
