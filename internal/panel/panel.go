// Package panel implements the list-and-mutate stores behind the admin
// views. Each panel owns its own fetched snapshot; a failed call never
// touches prior state, and local mutations happen only after the server
// acknowledged the request.
package panel

import (
	"errors"
	"sync"
)

var (
	// ErrBusy is returned when a mutation is attempted while another one is
	// still in flight on the same panel.
	ErrBusy = errors.New("another operation is already in progress")

	// ErrNotConfirmed is returned when the user declined the confirmation
	// prompt for a destructive action.
	ErrNotConfirmed = errors.New("action not confirmed")

	// ErrSelfDelete is returned when the delete target matches the current
	// session's username.
	ErrSelfDelete = errors.New("cannot delete the currently signed-in user")

	// ErrValidation wraps client-side required-field failures.
	ErrValidation = errors.New("validation failed")

	// ErrParentCycle is returned when a group mutation would make a group an
	// ancestor of itself.
	ErrParentCycle = errors.New("group parent chain forms a cycle")
)

// Confirmer gates irreversible actions. The request is only issued when
// Confirm returns true.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm is used where the caller has already gated the action.
var AlwaysConfirm = ConfirmerFunc(func(string) bool { return true })

// busyGate serializes mutations: one in-flight request per panel.
type busyGate struct {
	mu   sync.Mutex
	busy bool
}

func (g *busyGate) acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

func (g *busyGate) release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// Busy reports whether a mutation is in flight.
func (g *busyGate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}
