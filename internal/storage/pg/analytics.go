package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/domain"
)

func (s *Store) InsertArticleView(ctx context.Context, v *domain.ArticleView) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.ViewedAt.IsZero() {
		v.ViewedAt = time.Now()
	}

	cmd := `
        INSERT INTO article_views (
            id, article_id, user_id, session_id, ip_address, user_agent,
            referer, device, browser, os, entry_page, viewed_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := s.db.Exec(ctx, cmd,
		v.ID, v.ArticleID, v.UserID, v.SessionID, v.IPAddress, v.UserAgent,
		v.Referer, v.Device, v.Browser, v.OS, v.EntryPage, v.ViewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert article view: %w", err)
	}
	return nil
}

// UpdateViewEngagement attaches time-spent and scroll-depth readings to the
// newest view row of the (session, article) pair.
func (s *Store) UpdateViewEngagement(ctx context.Context, articleID uuid.UUID, sessionID string, timeSpent *int, scrollDepth *float64) error {
	cmd := `
        UPDATE article_views SET
            time_spent = COALESCE($3, time_spent),
            scroll_depth = COALESCE($4, scroll_depth)
        WHERE id = (
            SELECT id FROM article_views
            WHERE article_id = $1 AND session_id = $2
            ORDER BY viewed_at DESC LIMIT 1
        );
    `
	_, err := s.db.Exec(ctx, cmd, articleID, sessionID, timeSpent, scrollDepth)
	if err != nil {
		return fmt.Errorf("failed to update view engagement: %w", err)
	}
	return nil
}

// TouchUserSession starts or refreshes a visitor session, bumping its page
// view counter.
func (s *Store) TouchUserSession(ctx context.Context, session *domain.UserSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	now := time.Now()

	cmd := `
        INSERT INTO user_sessions (id, session_id, user_id, ip_address, user_agent, device, browser, os, page_views, started_at, last_activity)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $9)
        ON CONFLICT (session_id) DO UPDATE
        SET page_views = user_sessions.page_views + 1,
            last_activity = EXCLUDED.last_activity,
            user_id = COALESCE(EXCLUDED.user_id, user_sessions.user_id);
    `
	_, err := s.db.Exec(ctx, cmd,
		session.ID, session.SessionID, session.UserID, session.IPAddress,
		session.UserAgent, session.Device, session.Browser, session.OS, now,
	)
	if err != nil {
		return fmt.Errorf("failed to touch user session: %w", err)
	}
	return nil
}

// InsertUserJourney appends a journey step, numbering it after the session's
// existing steps.
func (s *Store) InsertUserJourney(ctx context.Context, j *domain.UserJourney) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now()
	}

	cmd := `
        INSERT INTO user_journeys (id, session_id, user_id, step, article_id, action, metadata, created_at)
        SELECT $1, $2, $3, COALESCE(MAX(step), 0) + 1, $4, $5, $6, $7
        FROM user_journeys WHERE session_id = $2;
    `
	_, err := s.db.Exec(ctx, cmd,
		j.ID, j.SessionID, j.UserID, j.ArticleID, j.Action, j.Metadata, j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user journey: %w", err)
	}
	return nil
}

func (s *Store) LogSearchQuery(ctx context.Context, log *domain.SearchQueryLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	cmd := `
        INSERT INTO search_queries (id, query, filters, results, user_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := s.db.Exec(ctx, cmd, log.ID, log.Query, log.Filters, log.Results, log.UserID, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log search query: %w", err)
	}
	return nil
}

// StatsWindow computes the site-wide rollup for the [from, to) window.
// Unique views count distinct (user, ip) pairs.
func (s *Store) StatsWindow(ctx context.Context, from, to time.Time) (*domain.DailyStats, error) {
	stats := &domain.DailyStats{Date: from}

	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*),
               COUNT(DISTINCT (user_id, ip_address)),
               COALESCE(AVG(time_spent), 0)::int,
               COALESCE(AVG(scroll_depth), 0)
        FROM article_views WHERE viewed_at >= $1 AND viewed_at < $2;
    `, from, to).Scan(&stats.Views, &stats.UniqueViews, &stats.AvgTimeSpent, &stats.AvgScrollDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate views: %w", err)
	}

	err = s.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM user_sessions WHERE started_at >= $1 AND started_at < $2;
    `, from, to).Scan(&stats.Sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sessions: %w", err)
	}

	err = s.db.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM comments WHERE created_at >= $1 AND created_at < $2),
            (SELECT COUNT(*) FROM article_likes WHERE created_at >= $1 AND created_at < $2),
            (SELECT COUNT(*) FROM shares WHERE created_at >= $1 AND created_at < $2),
            (SELECT COUNT(*) FROM newsletter_subscribers WHERE subscribed_at >= $1 AND subscribed_at < $2);
    `, from, to).Scan(&stats.Comments, &stats.Likes, &stats.Shares, &stats.NewSubscribers)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate engagement: %w", err)
	}

	err = s.db.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(SUM(amount), 0)
        FROM revenue_analytics WHERE purchased_at >= $1 AND purchased_at < $2;
    `, from, to).Scan(&stats.Purchases, &stats.Revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	return stats, nil
}

// UpsertDailyStats overwrites the rollup row for the stats date.
func (s *Store) UpsertDailyStats(ctx context.Context, stats *domain.DailyStats) error {
	if stats.ID == uuid.Nil {
		stats.ID = uuid.New()
	}

	cmd := `
        INSERT INTO daily_stats (id, date, views, unique_views, sessions, comments, likes, shares, purchases, revenue, new_subscribers, avg_time_spent, avg_scroll_depth)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (date) DO UPDATE SET
            views = EXCLUDED.views,
            unique_views = EXCLUDED.unique_views,
            sessions = EXCLUDED.sessions,
            comments = EXCLUDED.comments,
            likes = EXCLUDED.likes,
            shares = EXCLUDED.shares,
            purchases = EXCLUDED.purchases,
            revenue = EXCLUDED.revenue,
            new_subscribers = EXCLUDED.new_subscribers,
            avg_time_spent = EXCLUDED.avg_time_spent,
            avg_scroll_depth = EXCLUDED.avg_scroll_depth;
    `
	_, err := s.db.Exec(ctx, cmd,
		stats.ID, stats.Date, stats.Views, stats.UniqueViews, stats.Sessions,
		stats.Comments, stats.Likes, stats.Shares, stats.Purchases,
		stats.Revenue, stats.NewSubscribers, stats.AvgTimeSpent, stats.AvgScrollDepth,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}
	return nil
}

// FunnelWindow computes per-article conversion rollups for the window.
func (s *Store) FunnelWindow(ctx context.Context, from, to time.Time) ([]domain.ConversionFunnel, error) {
	rows, err := s.db.Query(ctx, `
        SELECT v.article_id,
               COUNT(*),
               COUNT(DISTINCT (v.user_id, v.ip_address)),
               COUNT(*) FILTER (WHERE v.scroll_depth >= 50),
               COUNT(*) FILTER (WHERE v.scroll_depth >= 75),
               COUNT(*) FILTER (WHERE v.scroll_depth >= 90),
               (SELECT COUNT(*) FROM article_likes l WHERE l.article_id = v.article_id AND l.created_at >= $1 AND l.created_at < $2),
               (SELECT COUNT(*) FROM comments c WHERE c.article_id = v.article_id AND c.created_at >= $1 AND c.created_at < $2),
               (SELECT COUNT(*) FROM shares sh WHERE sh.article_id = v.article_id AND sh.created_at >= $1 AND sh.created_at < $2),
               (SELECT COUNT(*) FROM revenue_analytics r WHERE r.article_id = v.article_id AND r.purchased_at >= $1 AND r.purchased_at < $2),
               (SELECT COALESCE(SUM(r.amount), 0) FROM revenue_analytics r WHERE r.article_id = v.article_id AND r.purchased_at >= $1 AND r.purchased_at < $2)
        FROM article_views v
        WHERE v.viewed_at >= $1 AND v.viewed_at < $2
        GROUP BY v.article_id;
    `, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate funnels: %w", err)
	}
	defer rows.Close()

	var funnels []domain.ConversionFunnel
	for rows.Next() {
		f := domain.ConversionFunnel{Date: from}
		err := rows.Scan(
			&f.ArticleID, &f.Views, &f.UniqueViews, &f.Scrolled50,
			&f.Scrolled75, &f.Completed, &f.Liked, &f.Commented, &f.Shared,
			&f.Purchases, &f.Revenue,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funnel: %w", err)
		}
		funnels = append(funnels, f)
	}
	return funnels, rows.Err()
}

func (s *Store) UpsertConversionFunnel(ctx context.Context, f *domain.ConversionFunnel) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}

	cmd := `
        INSERT INTO conversion_funnels (id, article_id, date, views, unique_views, scrolled_50, scrolled_75, completed, liked, commented, shared, purchases, revenue)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (article_id, date) DO UPDATE SET
            views = EXCLUDED.views,
            unique_views = EXCLUDED.unique_views,
            scrolled_50 = EXCLUDED.scrolled_50,
            scrolled_75 = EXCLUDED.scrolled_75,
            completed = EXCLUDED.completed,
            liked = EXCLUDED.liked,
            commented = EXCLUDED.commented,
            shared = EXCLUDED.shared,
            purchases = EXCLUDED.purchases,
            revenue = EXCLUDED.revenue;
    `
	_, err := s.db.Exec(ctx, cmd,
		f.ID, f.ArticleID, f.Date, f.Views, f.UniqueViews, f.Scrolled50,
		f.Scrolled75, f.Completed, f.Liked, f.Commented, f.Shared,
		f.Purchases, f.Revenue,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert conversion funnel: %w", err)
	}
	return nil
}

// TrafficWindow groups sessions by referer host for the window.
func (s *Store) TrafficWindow(ctx context.Context, from, to time.Time) ([]domain.TrafficSource, error) {
	rows, err := s.db.Query(ctx, `
        SELECT CASE
                 WHEN referer = '' THEN 'direct'
                 ELSE split_part(split_part(referer, '//', 2), '/', 1)
               END AS source,
               COUNT(DISTINCT session_id),
               COUNT(*)
        FROM article_views
        WHERE viewed_at >= $1 AND viewed_at < $2
        GROUP BY source;
    `, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate traffic sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.TrafficSource
	for rows.Next() {
		t := domain.TrafficSource{Date: from}
		if err := rows.Scan(&t.Source, &t.Sessions, &t.PageViews); err != nil {
			return nil, fmt.Errorf("failed to scan traffic source: %w", err)
		}
		sources = append(sources, t)
	}
	return sources, rows.Err()
}

func (s *Store) UpsertTrafficSource(ctx context.Context, t *domain.TrafficSource) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	cmd := `
        INSERT INTO traffic_sources (id, date, source, medium, sessions, page_views, revenue)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (date, source, medium) DO UPDATE SET
            sessions = EXCLUDED.sessions,
            page_views = EXCLUDED.page_views,
            revenue = EXCLUDED.revenue;
    `
	_, err := s.db.Exec(ctx, cmd, t.ID, t.Date, t.Source, t.Medium, t.Sessions, t.PageViews, t.Revenue)
	if err != nil {
		return fmt.Errorf("failed to upsert traffic source: %w", err)
	}
	return nil
}

func (s *Store) RecentDailyStats(ctx context.Context, days int) ([]domain.DailyStats, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, date, views, unique_views, sessions, comments, likes, shares, purchases, revenue, new_subscribers, avg_time_spent, avg_scroll_depth
        FROM daily_stats
        WHERE date >= CURRENT_DATE - $1::int
        ORDER BY date DESC;
    `, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.DailyStats
	for rows.Next() {
		var d domain.DailyStats
		err := rows.Scan(
			&d.ID, &d.Date, &d.Views, &d.UniqueViews, &d.Sessions, &d.Comments,
			&d.Likes, &d.Shares, &d.Purchases, &d.Revenue, &d.NewSubscribers,
			&d.AvgTimeSpent, &d.AvgScrollDepth,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}

// TopArticle pairs an article with its view count inside a window.
type TopArticle struct {
	Article domain.ArticleRef `json:"article"`
	Views   int64             `json:"views"`
}

func (s *Store) TopArticles(ctx context.Context, from time.Time, limit int) ([]TopArticle, error) {
	rows, err := s.db.Query(ctx, `
        SELECT a.id, a.title, a.slug, a.excerpt, a.cover_image, COUNT(v.id) AS views
        FROM article_views v JOIN articles a ON a.id = v.article_id
        WHERE v.viewed_at >= $1
        GROUP BY a.id, a.title, a.slug, a.excerpt, a.cover_image
        ORDER BY views DESC
        LIMIT $2;
    `, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top articles: %w", err)
	}
	defer rows.Close()

	var top []TopArticle
	for rows.Next() {
		var t TopArticle
		err := rows.Scan(&t.Article.ID, &t.Article.Title, &t.Article.Slug, &t.Article.Excerpt, &t.Article.CoverImage, &t.Views)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top article: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

// RevenueSummary totals gross, fees and net over a window.
type RevenueSummary struct {
	Purchases  int64   `json:"purchases"`
	Gross      float64 `json:"gross"`
	Fees       float64 `json:"fees"`
	NetRevenue float64 `json:"netRevenue"`
}

func (s *Store) RevenueBetween(ctx context.Context, from, to time.Time) (*RevenueSummary, error) {
	var summary RevenueSummary
	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(stripe_fee), 0), COALESCE(SUM(net_revenue), 0)
        FROM revenue_analytics WHERE purchased_at >= $1 AND purchased_at < $2;
    `, from, to).Scan(&summary.Purchases, &summary.Gross, &summary.Fees, &summary.NetRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize revenue: %w", err)
	}
	return &summary, nil
}

// PopularSearch is a grouped search phrase with its frequency.
type PopularSearch struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

func (s *Store) PopularSearches(ctx context.Context, since time.Time, limit int) ([]PopularSearch, error) {
	rows, err := s.db.Query(ctx, `
        SELECT query, COUNT(*) AS n
        FROM search_queries
        WHERE created_at >= $1 AND query <> ''
        GROUP BY query
        ORDER BY n DESC
        LIMIT $2;
    `, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular searches: %w", err)
	}
	defer rows.Close()

	var popular []PopularSearch
	for rows.Next() {
		var p PopularSearch
		if err := rows.Scan(&p.Query, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan popular search: %w", err)
		}
		popular = append(popular, p)
	}
	return popular, rows.Err()
}

func (s *Store) RecentConversionFunnels(ctx context.Context, days int) ([]domain.ConversionFunnel, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, article_id, date, views, unique_views, scrolled_50, scrolled_75, completed, liked, commented, shared, purchases, revenue
        FROM conversion_funnels
        WHERE date >= CURRENT_DATE - $1::int
        ORDER BY date DESC, views DESC;
    `, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion funnels: %w", err)
	}
	defer rows.Close()

	var funnels []domain.ConversionFunnel
	for rows.Next() {
		var f domain.ConversionFunnel
		err := rows.Scan(
			&f.ID, &f.ArticleID, &f.Date, &f.Views, &f.UniqueViews, &f.Scrolled50,
			&f.Scrolled75, &f.Completed, &f.Liked, &f.Commented, &f.Shared,
			&f.Purchases, &f.Revenue,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversion funnel: %w", err)
		}
		funnels = append(funnels, f)
	}
	return funnels, rows.Err()
}

func (s *Store) RecentTrafficSources(ctx context.Context, days int) ([]domain.TrafficSource, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, date, source, medium, sessions, page_views, revenue
        FROM traffic_sources
        WHERE date >= CURRENT_DATE - $1::int
        ORDER BY date DESC, sessions DESC;
    `, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query traffic sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.TrafficSource
	for rows.Next() {
		var t domain.TrafficSource
		err := rows.Scan(&t.ID, &t.Date, &t.Source, &t.Medium, &t.Sessions, &t.PageViews, &t.Revenue)
		if err != nil {
			return nil, fmt.Errorf("failed to scan traffic source: %w", err)
		}
		sources = append(sources, t)
	}
	return sources, rows.Err()
}

// RealtimeSnapshot counts activity in the trailing window, for the live
// admin dashboard.
type RealtimeSnapshot struct {
	Views          int64 `json:"views"`
	ActiveSessions int64 `json:"activeSessions"`
}

func (s *Store) RealtimeActivity(ctx context.Context, window time.Duration) (*RealtimeSnapshot, error) {
	var snap RealtimeSnapshot
	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*), COUNT(DISTINCT session_id)
        FROM article_views
        WHERE viewed_at >= now() - ($1 * interval '1 second');
    `, window.Seconds()).Scan(&snap.Views, &snap.ActiveSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to query realtime activity: %w", err)
	}
	return &snap, nil
}

func (s *Store) JourneyBySession(ctx context.Context, sessionID string) ([]domain.UserJourney, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, session_id, user_id, step, article_id, action, metadata, created_at
        FROM user_journeys
        WHERE session_id = $1
        ORDER BY step ASC;
    `, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journey: %w", err)
	}
	defer rows.Close()

	var steps []domain.UserJourney
	for rows.Next() {
		var j domain.UserJourney
		err := rows.Scan(&j.ID, &j.SessionID, &j.UserID, &j.Step, &j.ArticleID, &j.Action, &j.Metadata, &j.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journey step: %w", err)
		}
		steps = append(steps, j)
	}
	return steps, rows.Err()
}

func (s *Store) ViewsSince(ctx context.Context, since time.Time, limit int) ([]domain.ArticleView, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, article_id, user_id, session_id, ip_address, user_agent,
               referer, device, browser, os, entry_page, time_spent, scroll_depth, viewed_at
        FROM article_views
        WHERE viewed_at >= $1
        ORDER BY viewed_at DESC
        LIMIT $2;
    `, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer rows.Close()

	var views []domain.ArticleView
	for rows.Next() {
		var v domain.ArticleView
		err := rows.Scan(
			&v.ID, &v.ArticleID, &v.UserID, &v.SessionID, &v.IPAddress, &v.UserAgent,
			&v.Referer, &v.Device, &v.Browser, &v.OS, &v.EntryPage, &v.TimeSpent,
			&v.ScrollDepth, &v.ViewedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (s *Store) RevenueEntriesSince(ctx context.Context, since time.Time, limit int) ([]domain.RevenueEntry, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, article_id, purchase_id, user_id, amount, stripe_fee, net_revenue, stripe_session_id, purchased_at
        FROM revenue_analytics
        WHERE purchased_at >= $1
        ORDER BY purchased_at DESC
        LIMIT $2;
    `, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.RevenueEntry
	for rows.Next() {
		var e domain.RevenueEntry
		err := rows.Scan(
			&e.ID, &e.ArticleID, &e.PurchaseID, &e.UserID, &e.Amount,
			&e.StripeFee, &e.NetRevenue, &e.StripeSessionID, &e.PurchasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revenue entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TopReaders summarizes the most engaged accounts: spend, distinct articles
// viewed, repeat visits and recency.
func (s *Store) TopReaders(ctx context.Context, limit int) ([]domain.ReaderBehavior, error) {
	rows, err := s.db.Query(ctx, `
        SELECT u.id, u.name, u.email,
               COALESCE((SELECT SUM(r.amount) FROM revenue_analytics r WHERE r.user_id = u.id), 0),
               (SELECT COUNT(DISTINCT v.article_id) FROM article_views v WHERE v.user_id = u.id),
               (SELECT COUNT(*) > 1 FROM user_sessions s WHERE s.user_id = u.id),
               COALESCE((SELECT MAX(v.viewed_at) FROM article_views v WHERE v.user_id = u.id), u.created_at)
        FROM users u
        ORDER BY 4 DESC, 5 DESC
        LIMIT $1;
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readers: %w", err)
	}
	defer rows.Close()

	var readers []domain.ReaderBehavior
	for rows.Next() {
		var r domain.ReaderBehavior
		var user domain.UserSummary
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email,
			&r.TotalSpent, &r.ArticlesRead, &r.ReturningVisitor, &r.LastVisit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reader: %w", err)
		}
		r.UserID = user.ID
		r.User = &user
		readers = append(readers, r)
	}
	return readers, rows.Err()
}
