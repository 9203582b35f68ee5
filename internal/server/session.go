package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
)

// Upload slots. The dashboard compares the current period against the
// previous one, so each session holds at most one table per slot.
const (
	SlotCurrent  = "current"
	SlotPrevious = "previous"
)

// ErrNoSession indicates a missing or expired session token.
var ErrNoSession = errors.New("no active session")

// slotData is everything derived from one uploaded file. It is replaced
// wholesale on re-upload; a failed upload leaves the previous state intact.
type slotData struct {
	Table    *dataset.Table
	Profiles []profile.ColumnProfile
	Stats    profile.Stats
	Specs    []recommend.ChartSpec
}

// Session is one user's in-memory workspace. Nothing is shared between
// sessions and nothing survives the process.
type Session struct {
	ID   string
	User string

	mu       sync.Mutex
	lastSeen time.Time
	slots    map[string]*slotData
}

// SetSlot stores the analysis results for one upload slot.
func (s *Session) SetSlot(slot string, d *slotData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = d
}

// Slot returns the data for one upload slot, or nil.
func (s *Session) Slot(slot string) *slotData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[slot]
}

// SessionStore tracks active sessions by token, evicting expired ones
// lazily on access.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates a store with the given idle TTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a session for the user and returns it.
func (st *SessionStore) Create(user string) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		User:     user,
		lastSeen: st.now(),
		slots:    make(map[string]*slotData),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session for the token, refreshing its idle timer.
func (st *SessionStore) Get(token string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	now := st.now()
	if st.ttl > 0 && now.Sub(s.lastSeen) > st.ttl {
		delete(st.sessions, token)
		return nil, ErrNoSession
	}
	s.lastSeen = now
	return s, nil
}

// Delete ends a session.
func (st *SessionStore) Delete(token string) {
	st.mu.Lock()
	delete(st.sessions, token)
	st.mu.Unlock()
}
