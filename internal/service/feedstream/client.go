package feedstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"SentinelFeed/internal/domain/models"
	applogger "SentinelFeed/pkg/logger"
)

// Client follows a feed service's /ws/feed stream.
type Client struct {
	url          string
	pingInterval time.Duration
	logger       *applogger.Logger

	conn *websocket.Conn
}

// New creates a stream client for the feed service at baseURL (http or ws scheme).
func New(baseURL string, pingInterval time.Duration, logger *applogger.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("feed url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("feed url: unsupported scheme %q", u.Scheme)
	}
	u.Path += "/ws/feed"
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	if logger == nil {
		logger = applogger.Nop()
	}
	return &Client{url: u.String(), pingInterval: pingInterval, logger: logger}, nil
}

// URL returns the stream endpoint.
func (c *Client) URL() string { return c.url }

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("feed stream connect: %w", err)
	}
	c.conn = conn
	c.logger.Info("feed stream connected", applogger.String("url", c.url))
	return nil
}

// Read streams snapshots until the context ends or the connection fails. The
// error channel receives at most one error; both channels are closed on exit.
func (c *Client) Read(ctx context.Context) (<-chan models.FeedSnapshot, <-chan error) {
	snaps := make(chan models.FeedSnapshot, 16)
	errs := make(chan error, 1)

	if c.conn == nil {
		errs <- fmt.Errorf("feed stream not connected")
		close(snaps)
		close(errs)
		return snaps, errs
	}

	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = c.conn.Close()
				return
			case <-ticker.C:
				_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	go func() {
		defer close(snaps)
		defer close(errs)
		for {
			_, b, err := c.conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					errs <- fmt.Errorf("feed stream read: %w", err)
				}
				return
			}
			var s models.FeedSnapshot
			if err := json.Unmarshal(b, &s); err != nil {
				c.logger.Warn("skipping undecodable frame", applogger.Error(err))
				continue
			}
			select {
			case snaps <- s:
			case <-ctx.Done():
				return
			}
		}
	}()

	return snaps, errs
}

// Close closes the WS connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
