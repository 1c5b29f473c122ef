package projectservice

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/ganttview/internal/models"
)

// Session is an uploaded project held in memory until it expires.
type Session struct {
	ID        string
	FileName  string
	Checksum  string
	Project   *models.Project
	CreatedAt time.Time
	ExpiresAt time.Time
}

// sessionStore is a bounded, TTL-limited map of upload sessions. When full,
// the oldest session is evicted.
type sessionStore struct {
	mu    sync.Mutex
	max   int
	ttl   time.Duration
	now   func() time.Time
	items map[string]*Session
	order []string // insertion order, oldest first
}

func newSessionStore(max int, ttl time.Duration, now func() time.Time) *sessionStore {
	return &sessionStore{
		max:   max,
		ttl:   ttl,
		now:   now,
		items: make(map[string]*Session),
	}
}

func (s *sessionStore) put(fileName, sum string, p *models.Project) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expireLocked(now)
	for len(s.order) >= s.max {
		s.removeLocked(s.order[0])
	}

	sess := &Session{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Checksum:  sum,
		Project:   p,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.items[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	return sess
}

func (s *sessionStore) get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(s.now())
	sess, ok := s.items[id]
	return sess, ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(s.now())
	return len(s.items)
}

func (s *sessionStore) expireLocked(now time.Time) {
	for len(s.order) > 0 {
		sess := s.items[s.order[0]]
		if sess != nil && now.Before(sess.ExpiresAt) {
			return
		}
		s.removeLocked(s.order[0])
	}
}

func (s *sessionStore) removeLocked(id string) {
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
