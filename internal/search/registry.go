package search

import (
	"fmt"
	"sync"
)

// ErrSearchInFlight is returned when an owner already has a running session.
var ErrSearchInFlight = fmt.Errorf("a search is already in flight for this owner")

// Registry enforces one active session per owner key. The HTTP layer keys by
// client address; a CLI run keys by a fixed owner.
type Registry struct {
	mu     sync.Mutex
	active map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*Session)}
}

// Acquire registers a session for owner. It fails with ErrSearchInFlight if
// the owner already has one whose Done channel has not closed yet.
func (r *Registry) Acquire(owner string, session *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.active[owner]; ok {
		select {
		case <-existing.Done():
			// Finished but never released; fall through and replace it.
		default:
			return ErrSearchInFlight
		}
	}

	r.active[owner] = session
	return nil
}

// Release removes the owner's session. Safe to call for an unknown owner.
func (r *Registry) Release(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, owner)
}

// Get returns the owner's active session, if any.
func (r *Registry) Get(owner string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.active[owner]
	return session, ok
}
