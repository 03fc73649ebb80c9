package registry

import (
	"sort"
	"strings"
	"sync"

	"go-beacon/internal/pkg/presence/domain"
)

// Registry maps stable identities to their current live session handle.
// It keeps a reverse sessionID -> identity index in the same critical section
// so disconnect lookups stay O(1) regardless of how many identities are known.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]domain.Handle // identity -> handle (nil = offline)
	bySession map[string]string        // sessionID -> identity
}

// New constructs an initialized Registry.
func New() *Registry {
	return &Registry{
		entries:   make(map[string]domain.Handle),
		bySession: make(map[string]string),
	}
}

// Bootstrap ensures an entry exists for identity and returns its current
// state. It never binds a handle; a fresh entry starts offline. Idempotent.
func (r *Registry) Bootstrap(identity string) (domain.Entry, error) {
	if strings.TrimSpace(identity) == "" {
		return domain.Entry{}, domain.ErrEmptyIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.entries[identity]
	if !ok {
		r.entries[identity] = nil
	}
	return domain.Entry{Identity: identity, Handle: h}, nil
}

// Register binds handle to identity, creating the entry if it is unknown.
// A later registration for the same identity wins; the superseded live handle
// (if any) is returned so the transport layer can close it. Rebinding the
// same handle is a no-op returning nil.
func (r *Registry) Register(identity string, h domain.Handle) (domain.Handle, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, domain.ErrEmptyIdentity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.entries[identity]
	if previous != nil {
		if previous.SessionID() == h.SessionID() {
			return nil, nil
		}
		delete(r.bySession, previous.SessionID())
	}

	r.entries[identity] = h
	r.bySession[h.SessionID()] = identity
	return previous, nil
}

// Unbind clears the binding for the given session and returns the identity it
// belonged to. The entry itself survives so the identity stays known across
// reconnects. An unknown or already-unbound session is a benign no-op.
func (r *Registry) Unbind(sessionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.bySession[sessionID]
	if !ok {
		return "", false
	}
	delete(r.bySession, sessionID)
	r.entries[identity] = nil
	return identity, true
}

// Resolve returns the live handle bound to identity, if any. Pure read.
func (r *Registry) Resolve(identity string) (domain.Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.entries[identity]
	if !ok || h == nil {
		return nil, false
	}
	return h, true
}

// Snapshot returns every known entry, online and offline, sorted by identity
// so a single call yields a stable order.
func (r *Registry) Snapshot() []domain.Entry {
	r.mu.RLock()
	snapshot := make([]domain.Entry, 0, len(r.entries))
	for identity, h := range r.entries {
		snapshot = append(snapshot, domain.Entry{Identity: identity, Handle: h})
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Identity < snapshot[j].Identity
	})
	return snapshot
}

// Len returns the number of known identities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
