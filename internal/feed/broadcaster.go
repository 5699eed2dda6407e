package feed

import (
	"sync"

	"SentinelFeed/internal/domain/models"
)

// Broadcaster hands the latest snapshot to any number of subscribers. Slow
// subscribers only ever see the most recent snapshot.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uint64]chan models.FeedSnapshot
	nextID uint64
	closed bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uint64]chan models.FeedSnapshot)}
}

// Subscribe returns a channel of snapshots and a cancel func that must be called
// once the subscriber is done.
func (b *Broadcaster) Subscribe() (<-chan models.FeedSnapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan models.FeedSnapshot, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers snap to every subscriber without blocking.
func (b *Broadcaster) Publish(snap models.FeedSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot and keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel; later subscriptions get a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
