package repository

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"SentinelFeed/internal/domain/models"
)

const defaultSeenWindow = 1024

// seenWindow remembers recently written alert IDs so an alert that drops out of
// the buffer and is fetched again is not written twice.
type seenWindow struct {
	ids *lru.Cache[string, struct{}]
}

func newSeenWindow(size int) *seenWindow {
	if size <= 0 {
		size = defaultSeenWindow
	}
	ids, err := lru.New[string, struct{}](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &seenWindow{ids: ids}
}

func (w *seenWindow) unseen(alerts []models.Alert) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if !w.ids.Contains(a.AlertID) {
			out = append(out, a)
		}
	}
	return out
}

func (w *seenWindow) mark(alerts []models.Alert) {
	for _, a := range alerts {
		w.ids.Add(a.AlertID, struct{}{})
	}
}
