package router

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/analytics"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/labstack/echo/v4"
)

const defaultDashboardDays = 30

type AnalyticsRouter struct {
	e       *echo.Echo
	store   *pg.Store
	tokens  *auth.TokenManager
	capture *analytics.Capture
}

func NewAnalyticsRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager, capture *analytics.Capture) *AnalyticsRouter {
	return &AnalyticsRouter{e: e, store: store, tokens: tokens, capture: capture}
}

func (r *AnalyticsRouter) Bind() {
	g := r.e.Group("/api/analytics/track", auth.OptionalAuthenticate(r.tokens, r.store))
	g.POST("/view", r.trackView)
	g.POST("/engagement", r.trackEngagement)
	g.POST("/journey", r.trackJourney)

	admin := r.e.Group("/api/admin/analytics", auth.Authenticate(r.tokens, r.store), auth.RequireAdmin())
	admin.GET("/dashboard", r.dashboard)
	admin.GET("/funnels", r.funnels)
	admin.GET("/traffic-sources", r.trafficSources)
	admin.GET("/realtime", r.realtime)
	admin.GET("/searches", r.popularSearches)
	admin.GET("/journeys/:sessionId", r.journey)
	admin.GET("/readers", r.readers)
	admin.GET("/export", r.export)
}

func (r *AnalyticsRouter) trackView(c echo.Context) error {
	var req dto.TrackViewRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	articleID, err := uuid.Parse(req.ArticleID)
	if err != nil {
		return apperr.NewValidation("Invalid articleId")
	}

	client := analytics.ClientInfo{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Referer:   req.Referer,
	}
	if client.Referer == "" {
		client.Referer = c.Request().Referer()
	}

	err = r.capture.TrackView(c.Request().Context(), articleID, currentUserID(c), req.SessionID, req.EntryPage, client)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

func (r *AnalyticsRouter) trackEngagement(c echo.Context) error {
	var req dto.TrackEngagementRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	articleID, err := uuid.Parse(req.ArticleID)
	if err != nil {
		return apperr.NewValidation("Invalid articleId")
	}

	err = r.capture.TrackEngagement(c.Request().Context(), articleID, req.SessionID, req.TimeSpent, req.ScrollDepth)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

func (r *AnalyticsRouter) trackJourney(c echo.Context) error {
	var req dto.TrackJourneyRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	articleID, err := parseOptionalUUID(req.ArticleID)
	if err != nil {
		return apperr.NewValidation("Invalid articleId")
	}

	err = r.capture.TrackJourney(c.Request().Context(), req.SessionID, currentUserID(c), articleID, req.Action, req.Metadata)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

type dashboardResponse struct {
	DailyStats  []domain.DailyStats `json:"dailyStats"`
	TopArticles []pg.TopArticle     `json:"topArticles"`
	Revenue     *pg.RevenueSummary  `json:"revenue"`
}

func (r *AnalyticsRouter) dashboard(c echo.Context) error {
	var q dto.DashboardQuery
	if err := validate.BindQuery(c, &q); err != nil {
		return err
	}
	if q.Days <= 0 {
		q.Days = defaultDashboardDays
	}

	ctx := c.Request().Context()
	since := time.Now().UTC().AddDate(0, 0, -q.Days)

	stats, err := r.store.RecentDailyStats(ctx, q.Days)
	if err != nil {
		return err
	}

	top, err := r.store.TopArticles(ctx, since, 10)
	if err != nil {
		return err
	}

	revenue, err := r.store.RevenueBetween(ctx, since, time.Now().UTC())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		DailyStats:  stats,
		TopArticles: top,
		Revenue:     revenue,
	})
}

func (r *AnalyticsRouter) funnels(c echo.Context) error {
	var q dto.DashboardQuery
	if err := validate.BindQuery(c, &q); err != nil {
		return err
	}
	if q.Days <= 0 {
		q.Days = defaultDashboardDays
	}

	funnels, err := r.store.RecentConversionFunnels(c.Request().Context(), q.Days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, funnels)
}

func (r *AnalyticsRouter) trafficSources(c echo.Context) error {
	var q dto.DashboardQuery
	if err := validate.BindQuery(c, &q); err != nil {
		return err
	}
	if q.Days <= 0 {
		q.Days = defaultDashboardDays
	}

	sources, err := r.store.RecentTrafficSources(c.Request().Context(), q.Days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sources)
}

func (r *AnalyticsRouter) journey(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return apperr.NewValidation("Session id is required")
	}

	steps, err := r.store.JourneyBySession(c.Request().Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, steps)
}

// realtime reports activity over the trailing five minutes.
func (r *AnalyticsRouter) realtime(c echo.Context) error {
	snap, err := r.store.RealtimeActivity(c.Request().Context(), 5*time.Minute)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (r *AnalyticsRouter) readers(c echo.Context) error {
	readers, err := r.store.TopReaders(c.Request().Context(), 50)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, readers)
}

// export dumps raw event rows for offline analysis. Capped at 10k rows per
// request.
func (r *AnalyticsRouter) export(c echo.Context) error {
	var q dto.DashboardQuery
	if err := validate.BindQuery(c, &q); err != nil {
		return err
	}
	if q.Days <= 0 {
		q.Days = defaultDashboardDays
	}

	const exportLimit = 10000
	ctx := c.Request().Context()
	since := time.Now().UTC().AddDate(0, 0, -q.Days)

	switch c.QueryParam("type") {
	case "views":
		views, err := r.store.ViewsSince(ctx, since, exportLimit)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, views)
	case "purchases":
		entries, err := r.store.RevenueEntriesSince(ctx, since, exportLimit)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, entries)
	case "comments":
		comments, err := r.store.ListComments(ctx, nil)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, comments)
	}
	return apperr.NewValidation("Export type must be views, purchases or comments")
}

func (r *AnalyticsRouter) popularSearches(c echo.Context) error {
	var q dto.DashboardQuery
	if err := validate.BindQuery(c, &q); err != nil {
		return err
	}
	if q.Days <= 0 {
		q.Days = defaultDashboardDays
	}

	since := time.Now().UTC().AddDate(0, 0, -q.Days)
	searches, err := r.store.PopularSearches(c.Request().Context(), since, 20)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, searches)
}
