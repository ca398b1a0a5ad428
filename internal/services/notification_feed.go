package services

import (
	"sync"

	"github.com/stwalsh4118/estatedesk/internal/models"
)

// DefaultFeedLimit caps the in-app notification list.
const DefaultFeedLimit = 100

// NotificationFeed is the in-memory list of in-app notifications. It is
// not persisted; a restart starts with an empty feed.
type NotificationFeed struct {
	mu    sync.RWMutex
	items []models.Notification
	limit int
}

// NewNotificationFeed creates a feed holding at most limit entries; the
// oldest are dropped first.
func NewNotificationFeed(limit int) *NotificationFeed {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &NotificationFeed{limit: limit}
}

// Push appends n.
func (f *NotificationFeed) Push(n models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]models.Notification(nil), f.items[over:]...)
	}
}

// List returns the notifications oldest first.
func (f *NotificationFeed) List() []models.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// MarkRead flags one notification as read. It reports whether the id
// was found.
func (f *NotificationFeed) MarkRead(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsRead = true
			return true
		}
	}
	return false
}

// Clear empties the feed.
func (f *NotificationFeed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
}
