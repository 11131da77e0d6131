// notify/store_test.go
package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LenoreWoW/Themis-sub003/models"
)

func note(id, userID string, read bool, createdAt time.Time) models.Notification {
	return models.Notification{
		ID:        id,
		UserID:    userID,
		Type:      models.NotifyTaskAssigned,
		Title:     "t",
		Message:   "m",
		IsRead:    read,
		CreatedAt: createdAt,
	}
}

func TestAppendAndForUser(t *testing.T) {
	s := NewStore(nil)
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	s.Append(note("a", "u1", false, base))
	s.Append(note("b", "u1", false, base.Add(time.Minute)))
	s.Append(note("c", "u2", false, base))

	got := s.ForUser("u1")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Len(t, s.ForUser("u2"), 1)
	assert.Empty(t, s.ForUser("nobody"))
}

func TestEvictionDropsOldestReadFirst(t *testing.T) {
	s := NewStore(nil)
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	// Fill to the cap with alternating read/unread, oldest first.
	for i := 0; i < DefaultRetention; i++ {
		s.Append(note(fmt.Sprintf("n%02d", i), "u1", i%2 == 0, base.Add(time.Duration(i)*time.Minute)))
	}
	s.Append(note("overflow", "u1", false, base.Add(time.Hour)))

	got := s.ForUser("u1")
	require.Len(t, got, DefaultRetention)

	// n00 was the oldest read entry; it goes first.
	for _, n := range got {
		assert.NotEqual(t, "n00", n.ID)
	}
	// Unread survivors intact, newest entry present.
	assert.Equal(t, "overflow", got[len(got)-1].ID)
}

func TestUnreadNeverEvicted(t *testing.T) {
	s := NewStore(nil)
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	// All unread and over the cap: nothing can be dropped.
	for i := 0; i < DefaultRetention+5; i++ {
		s.Append(note(fmt.Sprintf("n%02d", i), "u1", false, base.Add(time.Duration(i)*time.Minute)))
	}

	got := s.ForUser("u1")
	assert.Len(t, got, DefaultRetention+5)
	assert.Equal(t, DefaultRetention+5, s.UnreadCount("u1"))
}

func TestMarkRead(t *testing.T) {
	s := NewStore(nil)
	now := time.Now()
	s.Append(note("a", "u1", false, now))
	s.Append(note("b", "u1", false, now))

	require.Equal(t, 2, s.UnreadCount("u1"))

	assert.True(t, s.MarkRead("a"))
	assert.Equal(t, 1, s.UnreadCount("u1"))

	// Idempotent on repeat, false on unknown.
	assert.True(t, s.MarkRead("a"))
	assert.Equal(t, 1, s.UnreadCount("u1"))
	assert.False(t, s.MarkRead("ghost"))
}

func TestMarkAllRead(t *testing.T) {
	s := NewStore(nil)
	now := time.Now()
	s.Append(note("a", "u1", false, now))
	s.Append(note("b", "u1", false, now))
	s.Append(note("c", "u2", false, now))

	s.MarkAllRead("u1")
	assert.Equal(t, 0, s.UnreadCount("u1"))
	assert.Equal(t, 1, s.UnreadCount("u2"))

	// Second pass is a no-op.
	s.MarkAllRead("u1")
	assert.Equal(t, 0, s.UnreadCount("u1"))
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	s1 := NewStore(kv)
	s1.Append(note("a", "u1", false, now))
	s1.MarkRead("a")
	s1.Append(note("b", "u1", false, now.Add(time.Minute)))

	// A fresh store over the same KV sees the same log, flags included.
	s2 := NewStore(kv)
	got := s2.ForUser("u1")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.True(t, got[0].IsRead)
	assert.False(t, got[1].IsRead)
	assert.Equal(t, 1, s2.UnreadCount("u1"))
}

func TestCorruptLogStartsFresh(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set("notifications:u1", []byte("{not json"))

	s := NewStore(kv)
	assert.Empty(t, s.ForUser("u1"))

	s.Append(note("a", "u1", false, time.Now()))
	assert.Len(t, s.ForUser("u1"), 1)
}

func TestOnAppendHook(t *testing.T) {
	s := NewStore(nil)
	var seen []string
	s.OnAppend(func(n models.Notification) { seen = append(seen, n.ID) })

	s.Append(note("a", "u1", false, time.Now()))
	s.Append(note("b", "u2", false, time.Now()))
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestForUserReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Append(note("a", "u1", false, time.Now()))

	got := s.ForUser("u1")
	got[0].Title = "tampered"

	assert.Equal(t, "t", s.ForUser("u1")[0].Title)
}
