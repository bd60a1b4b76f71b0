package session

import (
	"errors"
	"sync"
	"time"

	"github.com/dgallion1/reportview/internal/page"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrLimitReached = errors.New("session limit reached")
)

// Session is one viewer's live report page. Events on a session are
// serialized: each runs to completion before the next starts.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	page      *page.Page
	scroll    *page.ScrollRecorder
	clipboard *Clipboard
}

// Do runs fn against the session's page under the session lock.
func (s *Session) Do(fn func(p *page.Page) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
	return fn(s.page)
}

// Scrolls returns and clears the scroll requests issued since the last
// call. Callers must hold the session via Do.
func (s *Session) Scrolls() []page.ScrollRequest { return s.scroll.Drain() }

// Copied returns and clears the texts copied since the last call. Callers
// must hold the session via Do.
func (s *Session) Copied() []string { return s.clipboard.Drain() }

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// Clipboard collects coordinate copies for delivery to the client.
type Clipboard struct {
	texts []string
}

func (c *Clipboard) WriteText(text string) error {
	c.texts = append(c.texts, text)
	return nil
}

// Drain returns and forgets the copied texts.
func (c *Clipboard) Drain() []string {
	out := c.texts
	c.texts = nil
	return out
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
}

func NewStore(ttl time.Duration, max int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
	}
}

func (s *Store) Put(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.sessions) >= s.max {
		return ErrLimitReached
	}
	s.sessions[sess.ID] = sess
	return nil
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how
// many were evicted.
func (s *Store) Cleanup(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.idleSince()) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
