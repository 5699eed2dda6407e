package mockapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"SentinelFeed/internal/domain/models"
	xhttp "SentinelFeed/pkg/http"
	xlogger "SentinelFeed/pkg/logger"
)

// Handler serves the fraud backend's read contract with generated data.
type Handler struct {
	logger *xlogger.Logger
	gen    *Generator
	now    func() time.Time
}

func NewHandler(logger *xlogger.Logger, gen *Generator) *Handler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &Handler{logger: logger, gen: gen, now: time.Now}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)

	v1 := e.Group("/api/v1")
	v1.GET("/alerts/recent", h.RecentAlerts)
	v1.GET("/stats", h.Stats)
}

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"service":  "Sentinel AI Kenya API",
		"status":   "operational",
		"version":  "1.0.0",
		"products": []string{"SwapGuard", "BetShield"},
	})
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(naiveTimestamp),
		"uptime":    "operational",
	})
}

func (h *Handler) RecentAlerts(c echo.Context) error {
	req := &models.RecentAlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	resp := h.gen.RecentAlerts(req.Limit, req.Product)
	h.logger.Debug("served recent alerts", xlogger.Int("count", resp.Count), xlogger.String("product", req.Product))
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.gen.Stats())
}
