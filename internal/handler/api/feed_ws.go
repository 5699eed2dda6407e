package api

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	xlogger "SentinelFeed/pkg/logger"
)

// Stream upgrades to a WebSocket and pushes the current snapshot, then a fresh
// one after every feed change. Client frames are read and discarded.
func (h *FeedEchoHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	remote := c.RealIP()
	h.logger.Debug("stream client connected", xlogger.String("remote", remote))
	defer h.logger.Debug("stream client disconnected", xlogger.String("remote", remote))

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, NewSnapshotView(h.feed.Snapshot())); err != nil {
		return nil
	}

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return nil
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed stopped"),
					time.Now().Add(h.writeWait))
				return nil
			}
			if err := h.write(conn, NewSnapshotView(snap)); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeWait)); err != nil {
				return nil
			}
		}
	}
}

func (h *FeedEchoHandler) write(conn *websocket.Conn, v SnapshotView) error {
	_ = conn.SetWriteDeadline(time.Now().Add(h.writeWait))
	if err := conn.WriteJSON(v); err != nil {
		h.logger.Debug("stream write failed", xlogger.Error(err))
		return err
	}
	return nil
}
