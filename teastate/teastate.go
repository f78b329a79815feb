// Package teastate binds statekit sessions to Bubble Tea programs: request
// transitions arrive as messages, and snapshots render as styled status
// lines.
package teastate

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/statekit/history"
	"github.com/jask/statekit/request"
)

// TransitionMsg delivers one session transition into the update loop. Tag
// identifies the relay that produced it; Snapshot.Seq orders transitions.
type TransitionMsg[V any] struct {
	Tag      string
	Snapshot request.Snapshot[V]
}

// Relay forwards session transitions into a Bubble Tea program. Pass
// Observer into the session config and keep re-issuing Next from Update,
// the same way spinner ticks are re-armed.
type Relay[V any] struct {
	tag string
	ch  chan request.Snapshot[V]
}

// NewRelay creates a relay tagged with the given name. The buffer holds a
// short burst of transitions; when it overflows the oldest snapshot is
// dropped, keeping the latest state flowing.
func NewRelay[V any](tag string) *Relay[V] {
	return &Relay[V]{tag: tag, ch: make(chan request.Snapshot[V], 16)}
}

// Observer returns the callback to register as the session observer.
func (r *Relay[V]) Observer() func(request.Snapshot[V]) {
	return func(s request.Snapshot[V]) {
		for {
			select {
			case r.ch <- s:
				return
			default:
				select {
				case <-r.ch:
				default:
				}
			}
		}
	}
}

// Next returns a command that waits for the next transition.
func (r *Relay[V]) Next() tea.Cmd {
	return func() tea.Msg {
		return TransitionMsg[V]{Tag: r.tag, Snapshot: <-r.ch}
	}
}

// SubmitCmd wraps Session.Submit as a command. The submission's transitions
// arrive through the session's relay, not through this command's message.
func SubmitCmd[I, V any](s *request.Session[I, V], in I) tea.Cmd {
	return func() tea.Msg {
		s.Submit(in)
		return nil
	}
}

// AbortCmd wraps Session.Abort as a command.
func AbortCmd[I, V any](s *request.Session[I, V], reason error) tea.Cmd {
	return func() tea.Msg {
		s.Abort(reason)
		return nil
	}
}

// UndoKeys names the key bindings HandleUndoKeys responds to.
type UndoKeys struct {
	Undo string
	Redo string
}

func DefaultUndoKeys() UndoKeys {
	return UndoKeys{Undo: "ctrl+z", Redo: "ctrl+y"}
}

// HandleUndoKeys applies an undo/redo key to the history. It reports whether
// the key was consumed and, if so, the resulting current value.
func HandleUndoKeys[T any](h *history.History[T], keys UndoKeys, msg tea.KeyMsg) (T, bool) {
	switch msg.String() {
	case keys.Undo:
		return h.Undo(), true
	case keys.Redo:
		return h.Redo(), true
	}
	var zero T
	return zero, false
}
