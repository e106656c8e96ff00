// Package session keeps the server-side sliding-expiry login records.
// Identity travels in the JWT; the session record only decides whether
// the login is still live. The clock is injected so expiry is testable.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	window   time.Duration
	now      func() time.Time
}

func NewManager(window time.Duration, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*model.Session),
		window:   window,
		now:      now,
	}
}

// Issue opens a session for a logged-in user.
func (m *Manager) Issue(u *model.User) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.now()
	s := &model.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Name:      u.FirstName + " " + u.LastName,
		Role:      u.Role,
		CartID:    u.CartID,
		IssuedAt:  t,
		ExpiresAt: t.Add(m.window),
	}
	m.sessions[s.ID] = s
	return s, nil
}

// Get returns the session if it is still live. An expired session is
// evicted and reported as ErrExpired.
func (m *Manager) Get(id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(s.ExpiresAt) {
		delete(m.sessions, id)
		return nil, ErrExpired
	}
	cp := *s
	return &cp, nil
}

// Touch slides the expiry window forward; every authenticated request
// counts as activity.
func (m *Manager) Touch(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	t := m.now()
	if !t.Before(s.ExpiresAt) {
		delete(m.sessions, id)
		return ErrExpired
	}
	s.ExpiresAt = t.Add(m.window)
	return nil
}

// Revoke drops the session on logout.
func (m *Manager) Revoke(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
