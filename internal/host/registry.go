package host

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mgpai22/subtrack/internal/logging"
)

// Registry hands out session handles keyed by UUID. Sessions created
// by one registry share its settings store.
type Registry struct {
	opts   SessionOptions
	logger *logging.Logger
	newID  func() string

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(opts SessionOptions) *Registry {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	return &Registry{
		opts:     opts,
		logger:   logging.OrNop(opts.Logger),
		newID:    uuid.NewString,
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Create() *Session {
	id := r.newID()
	s := NewSession(id, r.opts)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Infow("Session created", "session", id)
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

func (r *Registry) Teardown(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.Close()
	r.logger.Infow("Session torn down", "session", id)
	return nil
}

// Navigate tears the session down and creates a fresh one under the
// same handle, as when the host page changes. Cues are dropped;
// stored settings carry over.
func (r *Registry) Navigate(id string) (*Session, error) {
	r.mu.Lock()
	old, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s := NewSession(id, r.opts)
	r.sessions[id] = s
	r.mu.Unlock()

	old.Close()
	r.logger.Infow("Session reset on navigation", "session", id)
	return s, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Close tears down every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
