// Package session tracks each user's in-flight generation pipeline and its
// artifacts. Nothing here is persisted: closing the popup abandons the
// session, and the next generate call starts a fresh one.
package session

import (
	"sync"
	"time"

	"coldopen/internal/model"
)

// State is the view state the popup renders.
type State string

const (
	StateIdle        State = "idle"
	StateExtracting  State = "extracting"
	StateAnalyzing   State = "analyzing"
	StateGenerating  State = "generating"
	StateCustomizing State = "customizing"
	StateMessage     State = "message"
	StateError       State = "error"
	StateSetup       State = "setup"
)

// Loading reports whether the state is one of the transient pipeline states.
func (s State) Loading() bool {
	switch s {
	case StateExtracting, StateAnalyzing, StateGenerating, StateCustomizing:
		return true
	}
	return false
}

// Session is one user's pipeline snapshot. Pointer fields are shared with
// the manager's copy and must be treated as read-only by callers.
type Session struct {
	State     State                  `json:"state"`
	Objective string                 `json:"objective,omitempty"`
	Target    *model.TargetProfile   `json:"target,omitempty"`
	Analysis  *model.ProfileAnalysis `json:"analysis,omitempty"`
	Draft     *model.MessageDraft    `json:"draft,omitempty"`
	// LastError is the user-facing message backing the error state.
	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`

	busy bool
}

// Manager holds sessions keyed by user id. All access goes through the one
// mutex; pipeline work happens outside the lock, only state swaps inside it.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) get(userID string) *Session {
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{State: StateIdle}
		m.sessions[userID] = s
	}
	return s
}

// TryBegin claims the user's pipeline slot. It reports false when a pipeline
// is already running; a new request is only admitted after the prior one
// resolves. The returned release func must be called exactly once.
func (m *Manager) TryBegin(userID string) (release func(), ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(userID)
	if s.busy {
		return nil, false
	}
	s.busy = true
	return func() {
		m.mu.Lock()
		s.busy = false
		m.mu.Unlock()
	}, true
}

// Update applies fn to the user's session under the lock.
func (m *Manager) Update(userID string, fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(userID)
	fn(s)
	s.UpdatedAt = time.Now()
}

// SetState is the common single-field update.
func (m *Manager) SetState(userID string, state State) {
	m.Update(userID, func(s *Session) {
		s.State = state
	})
}

// Fail moves the session to the error state with a user-facing message.
func (m *Manager) Fail(userID, message string) {
	m.Update(userID, func(s *Session) {
		s.State = StateError
		s.LastError = message
	})
}

// Snapshot returns a copy of the user's session. A user who has never run
// the pipeline gets an idle snapshot without one being allocated.
func (m *Manager) Snapshot(userID string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Session{State: StateIdle}
	}
	return *s
}

// Prune drops sessions idle for longer than maxAge. Busy sessions are kept
// regardless of age. Returns how many were dropped.
func (m *Manager) Prune(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	dropped := 0
	for id, s := range m.sessions {
		if s.busy || s.UpdatedAt.After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		dropped++
	}
	return dropped
}
