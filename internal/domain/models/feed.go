package models

import "time"

type ConnectionMode string

const (
	ModeConnecting ConnectionMode = "connecting"
	ModeLive       ConnectionMode = "live"
	ModeSimulated  ConnectionMode = "simulated"
)

// Label is the passive indicator text shown next to the status dot.
func (m ConnectionMode) Label() string {
	switch m {
	case ModeLive:
		return "Live System"
	case ModeSimulated:
		return "Demo Mode"
	default:
		return "Connecting..."
	}
}

// FeedSnapshot is an immutable copy of the feed state handed to readers.
type FeedSnapshot struct {
	Mode      ConnectionMode `json:"mode"`
	Alerts    []Alert        `json:"alerts"`
	Stats     Statistics     `json:"stats"`
	Version   uint64         `json:"version"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// FeedEvent is emitted after every state change. NewAlerts holds alerts whose IDs
// were not in the buffer before the change.
type FeedEvent struct {
	NewAlerts []Alert
	Snapshot  FeedSnapshot
}
