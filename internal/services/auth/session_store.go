package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// SessionStore is the process-local session cache. Each entry holds a
// resolved identity under a random session id; reads slide the expiry
// forward so an active session never times out. A background janitor
// evicts expired entries.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	interval time.Duration
	stopChan chan bool
}

type sessionEntry struct {
	identity  models.SessionIdentity
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		interval: 15 * time.Minute, // Evict expired sessions every 15 minutes
		stopChan: make(chan bool),
	}
}

// Create stores an identity under a fresh random session id
func (s *SessionStore) Create(identity models.SessionIdentity) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	sid := hex.EncodeToString(buf)

	s.mu.Lock()
	s.sessions[sid] = &sessionEntry{
		identity:  identity,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return sid, nil
}

// Get resolves a session id to its identity and slides the expiry
// forward. Expired or unknown ids report not-found; an expired entry is
// removed on the spot rather than waiting for the janitor.
func (s *SessionStore) Get(sid string) (*models.SessionIdentity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sid]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, sid)
		return nil, false
	}

	entry.expiresAt = time.Now().Add(s.ttl)
	identity := entry.identity
	return &identity, true
}

// Delete removes a session (logout)
func (s *SessionStore) Delete(sid string) {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
}

// Count returns the number of live entries, expired included until the
// janitor runs
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Start starts the session janitor
func (s *SessionStore) Start() {
	go s.run()
	logrus.Info("Session janitor started")
}

// Stop stops the session janitor
func (s *SessionStore) Stop() {
	s.stopChan <- true
	logrus.Info("Session janitor stopped")
}

func (s *SessionStore) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stopChan:
			return
		}
	}
}

func (s *SessionStore) evictExpired() {
	now := time.Now()

	s.mu.Lock()
	removed := 0
	for sid, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, sid)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		logrus.Infof("Session janitor evicted %d expired session(s)", removed)
	}
}

// SetInterval sets the janitor interval
func (s *SessionStore) SetInterval(interval time.Duration) {
	s.interval = interval
}
