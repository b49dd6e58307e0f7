// Package handler chains action handlers: the first one that claims an
// action wins.
package handler

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/waveform/internal/keymap"
)

// Result is the outcome of offering an action to a handler.
type Result struct {
	Handled bool
	Cmd     tea.Cmd
}

// NotHandled is returned when a handler does not own the action.
var NotHandled = Result{}

// HandledNoCmd is returned by handlers that act synchronously.
var HandledNoCmd = Result{Handled: true}

// Handled claims the action and schedules cmd.
func Handled(cmd tea.Cmd) Result {
	return Result{Handled: true, Cmd: cmd}
}

// Handler is offered an action.
type Handler func(keymap.Action) Result

// Chain offers a to each handler in order and stops at the first that
// handles it.
func Chain(a keymap.Action, handlers ...Handler) (bool, tea.Cmd) {
	if a == "" {
		return false, nil
	}
	for _, h := range handlers {
		if r := h(a); r.Handled {
			return true, r.Cmd
		}
	}
	return false, nil
}
