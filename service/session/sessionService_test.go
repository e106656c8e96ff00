package session

import (
	"errors"
	"testing"
	"time"

	"github.com/armando2sarango/cuencawheels-rest-sub000/model"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testUser() *model.User {
	return &model.User{
		ID:        7,
		FirstName: "Armando",
		LastName:  "Sarango",
		Role:      model.RoleClient,
		CartID:    "cart-1",
	}
}

func TestIssueAndGet(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	m := NewManager(10*time.Minute, clk.now)

	s, err := m.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	require.Equal(t, "Armando Sarango", s.Name)
	require.Equal(t, clk.t.Add(10*time.Minute), s.ExpiresAt)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	require.Equal(t, s.ID, got.ID)
	require.Equal(t, "cart-1", got.CartID)
}

func TestGet_Unknown(t *testing.T) {
	m := NewManager(10*time.Minute, nil)
	_, err := m.Get("nope")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestGet_ExpiredEvicts(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	m := NewManager(10*time.Minute, clk.now)

	s, _ := m.Issue(testUser())
	clk.advance(10 * time.Minute)

	_, err := m.Get(s.ID)
	require.True(t, errors.Is(err, ErrExpired))

	// Evicted: a second lookup no longer knows the id.
	_, err = m.Get(s.ID)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestTouch_SlidesWindow(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	m := NewManager(10*time.Minute, clk.now)

	s, _ := m.Issue(testUser())

	// Idle 9 minutes, touch, idle 9 more: still live because each
	// request restarts the 10 minute window.
	clk.advance(9 * time.Minute)
	require.NoError(t, m.Touch(s.ID))
	clk.advance(9 * time.Minute)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	require.Equal(t, clk.t.Add(-9*time.Minute).Add(10*time.Minute), got.ExpiresAt)

	// 10 idle minutes after the last touch ends it.
	clk.advance(1 * time.Minute)
	require.True(t, errors.Is(m.Touch(s.ID), ErrExpired))
}

func TestRevoke(t *testing.T) {
	m := NewManager(10*time.Minute, nil)
	s, _ := m.Issue(testUser())
	m.Revoke(s.ID)
	_, err := m.Get(s.ID)
	require.True(t, errors.Is(err, ErrNotFound))
}
