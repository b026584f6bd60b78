package goadmin

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Session is the server-side record behind a session cookie. The cookie only
// ever carries the opaque ID; everything else stays on the server, which is
// what lets a model's removal from the registry revoke its sessions.
type Session struct {
	ID       string    `json:"-"`
	Model    string    `json:"model"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Created  time.Time `json:"created"`
	Expires  time.Time `json:"expires"`
}

// SessionStore keeps issued sessions. The default is the in-memory TTL store
// below; hosts that need sessions to survive restarts or to be shared between
// processes can plug in their own implementation via NewWithSessions.
type SessionStore interface {
	// Create issues a new session for the given user of the given model.
	Create(model, userID, username string) (*Session, error)

	// Get returns the session with the given ID if it exists and has not
	// expired.
	Get(id string) (*Session, bool)

	// Delete discards a session. Unknown IDs are ignored.
	Delete(id string)

	// DeleteModel discards every session whose user belongs to model.
	DeleteModel(model string)
}

// MemorySessionStore is the default SessionStore: an in-process TTL cache.
// Sessions vanish when the process exits, which suits an admin panel.
type MemorySessionStore struct {
	ttl      time.Duration
	sessions *cache.Cache
}

// NewMemorySessionStore returns a store whose sessions expire after ttl.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: cache.New(ttl, 10*time.Minute),
	}
}

// Create implements SessionStore.
func (s *MemorySessionStore) Create(model, userID, username string) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	sess := &Session{
		ID:       id,
		Model:    model,
		UserID:   userID,
		Username: username,
		Created:  now,
		Expires:  now.Add(s.ttl),
	}
	s.sessions.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// Get implements SessionStore. Expired sessions are reported as absent.
func (s *MemorySessionStore) Get(id string) (*Session, bool) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Delete implements SessionStore.
func (s *MemorySessionStore) Delete(id string) {
	s.sessions.Delete(id)
}

// DeleteModel implements SessionStore.
func (s *MemorySessionStore) DeleteModel(model string) {
	for id, item := range s.sessions.Items() {
		if sess, ok := item.Object.(*Session); ok && sess.Model == model {
			s.sessions.Delete(id)
		}
	}
}

// newSessionID generates a random 128-bit, Base64-encoded session ID. The
// resulting string is 24 characters long, so collisions are not a practical
// concern.
func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("could not generate session ID: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
