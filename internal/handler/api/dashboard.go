package api

import (
	"net/http"
	"time"

	"EstatePulse/internal/domain/models"
	domrepo "EstatePulse/internal/domain/repository"
	xhttp "EstatePulse/pkg/http"
	xlogger "EstatePulse/pkg/logger"
	"EstatePulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the dashboard data API. The three core endpoints
// return the raw resource shapes the dashboard page consumes; the history
// endpoint uses the standard response envelope.
type DashboardHandler struct {
	logger *xlogger.Logger
	feed   domrepo.EconomicFeed
	store  domrepo.SnapshotStore
}

func NewDashboardHandler(logger *xlogger.Logger, feed domrepo.EconomicFeed, store domrepo.SnapshotStore) *DashboardHandler {
	return &DashboardHandler{logger: logger, feed: feed, store: store}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/economic-indicators", h.Indicators)
	g.GET("/market-impact", h.MarketImpact)
	g.GET("/economic-insights", h.Insights)
	g.GET("/economic-indicators/history", h.History)
	e.GET("/healthz", h.Health)
}

// Indicators returns the current indicator set.
func (h *DashboardHandler) Indicators(c echo.Context) error {
	set, err := h.feed.Indicators(c.Request().Context())
	if err != nil {
		h.logger.Error("indicators fetch failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("economic indicators unavailable").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return c.JSON(http.StatusOK, set)
}

// MarketImpact returns the market impact assessment.
func (h *DashboardHandler) MarketImpact(c echo.Context) error {
	impact, err := h.feed.MarketImpact(c.Request().Context())
	if err != nil {
		h.logger.Error("market impact fetch failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("market impact unavailable").WithError(err))
	}
	return c.JSON(http.StatusOK, impact)
}

// Insights returns the advisory insights wrapped in the wire shape
// {"insights": [...]}.
func (h *DashboardHandler) Insights(c echo.Context) error {
	insights, err := h.feed.Insights(c.Request().Context())
	if err != nil {
		h.logger.Error("insights fetch failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("economic insights unavailable").WithError(err))
	}
	if insights == nil {
		insights = []models.Insight{}
	}
	return c.JSON(http.StatusOK, models.InsightList{Insights: insights})
}

// History returns stored indicator snapshots for a time range.
// Query params: from, to (RFC3339 or unix seconds), granularity (1m/1h/1d),
// limit.
func (h *DashboardHandler) History(c echo.Context) error {
	if h.store == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("snapshot history not configured"))
	}

	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), now.Add(-30*24*time.Hour))
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), now)
	if g := c.QueryParam("granularity"); g != "" {
		from, to = util.AlignRange(from, to, g)
	}
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 100)

	if to.Before(from) {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_RANGE",
			Field:   "to",
			Message: "to must not be before from",
		}})
	}

	snaps, err := h.store.History(c.Request().Context(), from, to, limit)
	if err != nil {
		h.logger.Error("history query failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("history query failed").WithError(err))
	}
	if snaps == nil {
		snaps = []models.IndicatorSnapshot{}
	}
	return xhttp.SuccessResponse(c, snaps)
}

// Health reports service liveness and snapshot store reachability.
func (h *DashboardHandler) Health(c echo.Context) error {
	status := map[string]string{"service": "ok"}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			status["snapshots"] = "unreachable"
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		status["snapshots"] = "ok"
	}
	return c.JSON(http.StatusOK, status)
}
