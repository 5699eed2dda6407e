package feed

import "SentinelFeed/internal/domain/models"

// DefaultCapacity is the number of alerts the stream keeps on screen.
const DefaultCapacity = 8

// Buffer is a bounded, newest-first list of alerts. It is not safe for
// concurrent use; State serialises access to it.
type Buffer struct {
	buf   []models.Alert
	limit int
}

func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultCapacity
	}
	return &Buffer{buf: make([]models.Alert, 0, limit), limit: limit}
}

// Push inserts at the head and evicts the tail once the buffer is full.
// It returns the evicted alert, if any.
func (b *Buffer) Push(a models.Alert) (evicted *models.Alert) {
	if len(b.buf) == b.limit {
		last := b.buf[b.limit-1]
		evicted = &last
		copy(b.buf[1:], b.buf[:b.limit-1])
		b.buf[0] = a
		return evicted
	}
	b.buf = append(b.buf, models.Alert{})
	copy(b.buf[1:], b.buf[:len(b.buf)-1])
	b.buf[0] = a
	return nil
}

// Replace discards the current contents and adopts alerts, keeping the first
// Cap() entries.
func (b *Buffer) Replace(alerts []models.Alert) {
	n := len(alerts)
	if n > b.limit {
		n = b.limit
	}
	b.buf = b.buf[:0]
	b.buf = append(b.buf, alerts[:n]...)
}

// Snapshot returns a copy, newest first.
func (b *Buffer) Snapshot() []models.Alert {
	out := make([]models.Alert, len(b.buf))
	copy(out, b.buf)
	return out
}

func (b *Buffer) Len() int { return len(b.buf) }

func (b *Buffer) Cap() int { return b.limit }

// Contains reports whether an alert with the given ID is buffered.
func (b *Buffer) Contains(id string) bool {
	for i := range b.buf {
		if b.buf[i].AlertID == id {
			return true
		}
	}
	return false
}
