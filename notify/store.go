// notify/store.go
package notify

import (
	"encoding/json"
	"log"
	"sort"
	"sync"

	"github.com/LenoreWoW/Themis-sub003/models"
)

// DefaultRetention is the per-user notification cap.
const DefaultRetention = 50

// Store is the append-only per-user notification log. Notifications are
// immutable once appended except for the read flag.
//
// Retention: on overflow the oldest read notifications are evicted first,
// by createdAt ascending. Unread notifications are never evicted, so a
// user's log may temporarily exceed the cap when unread alone exceeds it.
type Store struct {
	mu        sync.Mutex
	byUser    map[string][]models.Notification
	loaded    map[string]bool
	retention int
	kv        KV
	onAppend  func(models.Notification)
}

// NewStore builds a store backed by the given KV. A nil KV keeps the log
// purely in memory.
func NewStore(kv KV) *Store {
	return &Store{
		byUser:    make(map[string][]models.Notification),
		loaded:    make(map[string]bool),
		retention: DefaultRetention,
		kv:        kv,
	}
}

// OnAppend registers a hook invoked for every appended notification, after
// it is stored. Used to push fresh notifications over the websocket.
func (s *Store) OnAppend(fn func(models.Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAppend = fn
}

func (s *Store) key(userID string) string { return "notifications:" + userID }

// load pulls a user's log from the KV on first touch.
func (s *Store) load(userID string) {
	if s.loaded[userID] {
		return
	}
	s.loaded[userID] = true
	if s.kv == nil {
		return
	}
	raw, ok := s.kv.Get(s.key(userID))
	if !ok {
		return
	}
	var list []models.Notification
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Printf("notification store: corrupt log for user %s, starting fresh: %v", userID, err)
		return
	}
	s.byUser[userID] = list
}

func (s *Store) persist(userID string) {
	if s.kv == nil {
		return
	}
	raw, err := json.Marshal(s.byUser[userID])
	if err != nil {
		log.Printf("notification store: marshal failed for user %s: %v", userID, err)
		return
	}
	s.kv.Set(s.key(userID), raw)
}

// Append adds a notification to its recipient's log and applies retention.
func (s *Store) Append(n models.Notification) {
	s.mu.Lock()
	s.load(n.UserID)
	s.byUser[n.UserID] = append(s.byUser[n.UserID], n)
	s.evict(n.UserID)
	s.persist(n.UserID)
	hook := s.onAppend
	s.mu.Unlock()

	if hook != nil {
		hook(n)
	}
}

// evict drops the oldest read notifications until the user is back under
// the cap. Caller holds the lock.
func (s *Store) evict(userID string) {
	list := s.byUser[userID]
	if len(list) <= s.retention {
		return
	}

	over := len(list) - s.retention
	read := make([]models.Notification, 0, len(list))
	for _, n := range list {
		if n.IsRead {
			read = append(read, n)
		}
	}
	sort.Slice(read, func(i, j int) bool { return read[i].CreatedAt.Before(read[j].CreatedAt) })
	if over > len(read) {
		over = len(read)
	}

	drop := make(map[string]bool, over)
	for _, n := range read[:over] {
		drop[n.ID] = true
	}

	kept := list[:0]
	for _, n := range list {
		if !drop[n.ID] {
			kept = append(kept, n)
		}
	}
	s.byUser[userID] = kept
}

// ForUser returns the user's notifications in insertion order.
func (s *Store) ForUser(userID string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(userID)
	out := make([]models.Notification, len(s.byUser[userID]))
	copy(out, s.byUser[userID])
	return out
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *Store) UnreadCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(userID)
	count := 0
	for _, n := range s.byUser[userID] {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkRead flips one notification to read. Idempotent: marking an already
// read or unknown id changes nothing. Returns whether the id was found.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, list := range s.byUser {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			if !list[i].IsRead {
				list[i].IsRead = true
				s.persist(userID)
			}
			return true
		}
	}
	return false
}

// MarkAllRead flips every notification for the user to read. Idempotent.
func (s *Store) MarkAllRead(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(userID)
	changed := false
	list := s.byUser[userID]
	for i := range list {
		if !list[i].IsRead {
			list[i].IsRead = true
			changed = true
		}
	}
	if changed {
		s.persist(userID)
	}
}
