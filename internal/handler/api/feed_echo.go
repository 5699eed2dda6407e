package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"SentinelFeed/internal/domain/models"
	"SentinelFeed/internal/service/ratelimit"
	xhttp "SentinelFeed/pkg/http"
	xlogger "SentinelFeed/pkg/logger"
)

// FeedSource is the read side of the feed controller.
type FeedSource interface {
	Snapshot() models.FeedSnapshot
	Subscribe() (<-chan models.FeedSnapshot, func())
}

// AlertLookup finds alerts that have already left the buffer.
type AlertLookup interface {
	Lookup(ctx context.Context, id string) (models.Alert, bool, error)
}

// FeedEchoHandler serves the feed's read API and its WebSocket stream.
type FeedEchoHandler struct {
	logger   *xlogger.Logger
	feed     FeedSource
	limiter  *ratelimit.Limiter
	index    AlertLookup
	upgrader websocket.Upgrader

	pingInterval time.Duration
	writeWait    time.Duration
}

type FeedHandlerOption func(*FeedEchoHandler)

// WithRateLimiter limits requests per client IP.
func WithRateLimiter(l *ratelimit.Limiter) FeedHandlerOption {
	return func(h *FeedEchoHandler) { h.limiter = l }
}

// WithAlertIndex lets alert lookups fall back to idx.
func WithAlertIndex(idx AlertLookup) FeedHandlerOption {
	return func(h *FeedEchoHandler) { h.index = idx }
}

// WithPingInterval sets how often idle stream connections are pinged.
func WithPingInterval(d time.Duration) FeedHandlerOption {
	return func(h *FeedEchoHandler) {
		if d > 0 {
			h.pingInterval = d
		}
	}
}

func NewFeedEchoHandler(logger *xlogger.Logger, feed FeedSource, opts ...FeedHandlerOption) *FeedEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &FeedEchoHandler{
		logger:       logger,
		feed:         feed,
		pingInterval: 30 * time.Second,
		writeWait:    10 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// same policy as the CORS middleware
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *FeedEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)

	g := e.Group("/api/feed", h.rateLimit)
	g.GET("/snapshot", h.Snapshot)
	g.GET("/alerts", h.Alerts)
	g.GET("/alerts/:id", h.Alert)
	g.GET("/stats", h.Stats)
	g.GET("/mode", h.Mode)

	e.GET("/ws/feed", h.Stream, h.rateLimit)
}

func (h *FeedEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
			h.logger.Debug("feed request rate limited", xlogger.String("remote", c.RealIP()))
			return xhttp.TooManyRequestsResponse(c)
		}
		return next(c)
	}
}

func (h *FeedEchoHandler) Healthz(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{
		"status": "ok",
		"mode":   string(h.feed.Snapshot().Mode),
	})
}

// Readyz fails until the probe has picked a mode.
func (h *FeedEchoHandler) Readyz(c echo.Context) error {
	mode := h.feed.Snapshot().Mode
	if mode == models.ModeConnecting {
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("feed is still connecting"))
	}
	return xhttp.SuccessResponse(c, newModeView(mode))
}

func (h *FeedEchoHandler) Snapshot(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, NewSnapshotView(h.feed.Snapshot()))
}

func (h *FeedEchoHandler) Alerts(c echo.Context) error {
	req := &models.AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	alerts := h.feed.Snapshot().Alerts
	out := make([]AlertView, 0, req.Limit)
	for _, a := range alerts {
		if len(out) == req.Limit {
			break
		}
		if req.Product != "" && string(a.Product) != req.Product {
			continue
		}
		out = append(out, newAlertView(a))
	}
	return xhttp.SuccessResponse(c, out)
}

// Alert looks up one alert in the buffer, then in the alert index.
func (h *FeedEchoHandler) Alert(c echo.Context) error {
	id := c.Param("id")
	for _, a := range h.feed.Snapshot().Alerts {
		if a.AlertID == id {
			return xhttp.SuccessResponse(c, newAlertView(a))
		}
	}
	if h.index != nil {
		a, ok, err := h.index.Lookup(c.Request().Context(), id)
		if err != nil {
			h.logger.Warn("alert index lookup failed", xlogger.Error(err), xlogger.String("alert_id", id))
			return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("alert index unavailable"))
		}
		if ok {
			return xhttp.SuccessResponse(c, newAlertView(a))
		}
	}
	return xhttp.AppErrorResponse(c, xhttp.NotFoundError("alert not in feed").WithParam("alert_id", id))
}

func (h *FeedEchoHandler) Stats(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.feed.Snapshot().Stats)
}

func (h *FeedEchoHandler) Mode(c echo.Context) error {
	return xhttp.SuccessResponse(c, newModeView(h.feed.Snapshot().Mode))
}
