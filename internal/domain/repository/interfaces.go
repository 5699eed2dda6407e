package repository

import (
	"context"
	"errors"

	"SentinelFeed/internal/domain/models"
)

// ErrMalformedPayload marks a backend response that decoded but carried no usable data.
var ErrMalformedPayload = errors.New("malformed payload")

// Backend is the fraud-detection API the feed reads from in live mode.
type Backend interface {
	Health(ctx context.Context) error
	RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error)
	Stats(ctx context.Context) (models.Statistics, error)
}

// FeedSink receives every feed change off the controller goroutine.
type FeedSink interface {
	Name() string
	Consume(ctx context.Context, ev models.FeedEvent) error
	Close() error
}

type Metrics interface {
	RecordMode(mode models.ConnectionMode)
	RecordProbe(result string)
	RecordAlert(source string, product models.Product)
	RecordFetch(endpoint string, err error, seconds float64)
	RecordBufferSize(n int)
	RecordSink(sink string, err error)
	RecordError(kind string)
}
