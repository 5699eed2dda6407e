package feedstream

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"SentinelFeed/internal/domain/models"
)

const DefaultTailWindow = 256

// Tail picks out the alerts of each snapshot that have not been reported yet.
// Only the last window IDs are remembered, which is far more than one buffer.
type Tail struct {
	seen *lru.Cache[string, struct{}]
}

func NewTail(window int) *Tail {
	if window <= 0 {
		window = DefaultTailWindow
	}
	seen, err := lru.New[string, struct{}](window)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Tail{seen: seen}
}

// Fresh returns the unseen alerts of snap oldest first and marks them seen.
func (t *Tail) Fresh(snap models.FeedSnapshot) []models.Alert {
	var out []models.Alert
	for i := len(snap.Alerts) - 1; i >= 0; i-- {
		a := snap.Alerts[i]
		if ok, _ := t.seen.ContainsOrAdd(a.AlertID, struct{}{}); ok {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Len reports how many alert IDs are remembered.
func (t *Tail) Len() int { return t.seen.Len() }
