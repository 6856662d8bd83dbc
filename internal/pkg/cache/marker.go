package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ReminderTTL outlives a business day so a marker set at 23:59 still
// blocks the same reminder until the day is over.
const ReminderTTL = 36 * time.Hour

// ReminderMarker records that a one-shot event already fired.
type ReminderMarker interface {
	// MarkOnce sets key if absent. It reports true only for the caller that
	// set it.
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// ReminderKey builds the marker key for a user, business date and reminder
// kind.
func ReminderKey(userID, date, kind string) string {
	return fmt.Sprintf("reminder:%s:%s:%s", date, userID, kind)
}

// MemoryMarker is a process-local ReminderMarker used when Redis is not
// configured.
type MemoryMarker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryMarker() *MemoryMarker {
	return &MemoryMarker{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryMarker) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expires, ok := m.entries[key]; ok && now.Before(expires) {
		return false, nil
	}
	m.entries[key] = now.Add(ttl)

	// Drop expired keys so the map does not grow without bound.
	for k, expires := range m.entries {
		if !now.Before(expires) {
			delete(m.entries, k)
		}
	}
	return true, nil
}
