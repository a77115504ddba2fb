// Package tokens keeps the backend bearer tokens and the user snapshot for
// one browser session.
package tokens

import (
	"encoding/json"
	"sync"

	"github.com/gin-contrib/sessions"

	"studio-dashboard/internal/models"
)

const (
	KeyAccess  = "access_token"
	KeyRefresh = "refresh_token"
	KeyUser    = "auth-storage"
)

type Store interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string) error
	Clear() error

	// User is the persisted snapshot; it says nothing about whether the
	// session is still valid.
	User() *models.User
	SetUser(u *models.User) error
}

// snapshot is what lives under the auth-storage key.
type snapshot struct {
	User *models.User `json:"user"`
}

// SessionStore persists tokens in the encrypted session cookie.
type SessionStore struct {
	sess sessions.Session
}

func NewSessionStore(sess sessions.Session) *SessionStore {
	return &SessionStore{sess: sess}
}

func (s *SessionStore) AccessToken() string {
	v, _ := s.sess.Get(KeyAccess).(string)
	return v
}

func (s *SessionStore) RefreshToken() string {
	v, _ := s.sess.Get(KeyRefresh).(string)
	return v
}

func (s *SessionStore) SetTokens(access, refresh string) error {
	s.sess.Set(KeyAccess, access)
	s.sess.Set(KeyRefresh, refresh)
	return s.sess.Save()
}

// Clear drops tokens and the user snapshot but keeps flashes.
func (s *SessionStore) Clear() error {
	s.sess.Delete(KeyAccess)
	s.sess.Delete(KeyRefresh)
	s.sess.Delete(KeyUser)
	return s.sess.Save()
}

func (s *SessionStore) User() *models.User {
	raw, _ := s.sess.Get(KeyUser).(string)
	if raw == "" {
		return nil
	}
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil
	}
	return snap.User
}

func (s *SessionStore) SetUser(u *models.User) error {
	if u == nil {
		s.sess.Delete(KeyUser)
		return s.sess.Save()
	}
	b, err := json.Marshal(snapshot{User: u})
	if err != nil {
		return err
	}
	s.sess.Set(KeyUser, string(b))
	return s.sess.Save()
}

// MemoryStore is a Store for background jobs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	user    *models.User
}

func NewMemoryStore(access, refresh string) *MemoryStore {
	return &MemoryStore{access: access, refresh: refresh}
}

func (m *MemoryStore) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

func (m *MemoryStore) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

func (m *MemoryStore) SetTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = access, refresh
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh, m.user = "", "", nil
	return nil
}

func (m *MemoryStore) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *MemoryStore) SetUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u == nil {
		m.user = nil
		return nil
	}
	cp := *u
	m.user = &cp
	return nil
}
