package session

import (
	"context"
	"log"
	"sync"
	"time"

	"maitred/internal/models"
)

// Status represents the lifecycle state of a conversation session
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusReady      Status = "ready"
	StatusPlaced     Status = "placed"
)

// DefaultMaxIdle is how long a session may sit without a new turn before the
// sweeper evicts it.
const DefaultMaxIdle = 30 * time.Minute

// Turn is one utterance in the conversation history
type Turn struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session holds the per-conversation state the engine accumulates across
// turns. Sessions live only in process memory; a restart forgets them all.
type Session struct {
	ID        string
	Slots     models.ConversationSlots
	Turns     []Turn
	Status    Status
	CreatedAt time.Time
}

// LastActivity returns the timestamp of the most recent turn, or the
// creation time for a session with no turns yet.
func (s *Session) LastActivity() time.Time {
	if len(s.Turns) == 0 {
		return s.CreatedAt
	}
	return s.Turns[len(s.Turns)-1].At
}

// AppendTurn records one utterance in the session history
func (s *Session) AppendTurn(role, text string, at time.Time) {
	s.Turns = append(s.Turns, Turn{Role: role, Text: text, At: at})
}

type entry struct {
	mu      sync.Mutex // serializes mutators of this one session
	session *Session
}

// Store is the process-wide map from session identifier to conversation
// state. Mutations of a given session are serialized through a per-session
// mutex so two racing utterances cannot lose slot updates, while sessions
// with different identifiers never block each other. Identifiers are opaque
// strings matched exactly, no normalization.
type Store struct {
	mu       sync.RWMutex // guards the map itself, not session contents
	sessions map[string]*entry
	clock    func() time.Time
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*entry),
		clock:    time.Now,
	}
}

func (st *Store) lookupOrCreate(id string) *entry {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return e
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if e, ok = st.sessions[id]; ok {
		return e
	}
	e = &entry{session: &Session{
		ID:        id,
		Status:    StatusCollecting,
		CreatedAt: st.clock(),
	}}
	st.sessions[id] = e
	return e
}

// Update runs fn against the session for id, creating the session with empty
// slots and collecting status if it does not exist. fn runs under the
// session's own lock; keep blocking work (LLM calls, catalog lookups)
// outside of it.
func (st *Store) Update(id string, fn func(*Session)) {
	e := st.lookupOrCreate(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

// Snapshot returns a copy of the session for id, if present
func (st *Store) Snapshot(id string) (Session, bool) {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return Session{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	copied := *e.session
	copied.Turns = append([]Turn(nil), e.session.Turns...)
	return copied, true
}

// Clear removes the session for id, reporting whether it existed
func (st *Store) Clear(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// SweepExpired evicts every session idle longer than maxIdle as of now,
// returning how many were removed.
func (st *Store) SweepExpired(now time.Time, maxIdle time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, e := range st.sessions {
		e.mu.Lock()
		idle := now.Sub(e.session.LastActivity())
		e.mu.Unlock()
		if idle > maxIdle {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs the idle sweep on a fixed interval until ctx is
// cancelled. onExpired, when non-nil, is told how many sessions each sweep
// evicted.
func (st *Store) StartSweeper(ctx context.Context, interval, maxIdle time.Duration, onExpired func(int)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := st.SweepExpired(now, maxIdle); n > 0 {
					log.Printf("session sweep evicted %d idle sessions", n)
					if onExpired != nil {
						onExpired(n)
					}
				}
			}
		}
	}()
}
