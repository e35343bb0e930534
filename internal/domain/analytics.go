package domain

import (
	"time"

	"github.com/google/uuid"
)

// ArticleView is one capture of an article page load, enriched with parsed
// user-agent fields. TimeSpent/ScrollDepth arrive later from the client and
// stay nil until then.
type ArticleView struct {
	ID          uuid.UUID  `json:"id"`
	ArticleID   uuid.UUID  `json:"articleId"`
	UserID      *uuid.UUID `json:"userId,omitempty"`
	SessionID   string     `json:"sessionId"`
	IPAddress   string     `json:"ipAddress,omitempty"`
	UserAgent   string     `json:"userAgent,omitempty"`
	Referer     string     `json:"referer,omitempty"`
	Device      string     `json:"device,omitempty"`
	Browser     string     `json:"browser,omitempty"`
	OS          string     `json:"os,omitempty"`
	EntryPage   bool       `json:"entryPage"`
	TimeSpent   *int       `json:"timeSpent,omitempty"`
	ScrollDepth *float64   `json:"scrollDepth,omitempty"`
	ViewedAt    time.Time  `json:"viewedAt"`
}

type UserSession struct {
	ID           uuid.UUID  `json:"id"`
	SessionID    string     `json:"sessionId"`
	UserID       *uuid.UUID `json:"userId,omitempty"`
	IPAddress    string     `json:"ipAddress,omitempty"`
	UserAgent    string     `json:"userAgent,omitempty"`
	Device       string     `json:"device,omitempty"`
	Browser      string     `json:"browser,omitempty"`
	OS           string     `json:"os,omitempty"`
	PageViews    int        `json:"pageViews"`
	StartedAt    time.Time  `json:"startedAt"`
	LastActivity time.Time  `json:"lastActivity"`
}

type UserJourney struct {
	ID        uuid.UUID   `json:"id"`
	SessionID string      `json:"sessionId"`
	UserID    *uuid.UUID  `json:"userId,omitempty"`
	Step      int         `json:"step"`
	ArticleID *uuid.UUID  `json:"articleId,omitempty"`
	Article   *ArticleRef `json:"article,omitempty"`
	Action    string      `json:"action"`
	Metadata  string      `json:"metadata,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

type SearchQueryLog struct {
	ID        uuid.UUID  `json:"id"`
	Query     string     `json:"query"`
	Filters   string     `json:"filters,omitempty"`
	Results   int        `json:"results"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// DailyStats is the nightly rollup, one row per UTC calendar day. Re-running
// the aggregation for the same day overwrites the row.
type DailyStats struct {
	ID             uuid.UUID `json:"id"`
	Date           time.Time `json:"date"`
	Views          int64     `json:"views"`
	UniqueViews    int64     `json:"uniqueViews"`
	Sessions       int64     `json:"sessions"`
	Comments       int64     `json:"comments"`
	Likes          int64     `json:"likes"`
	Shares         int64     `json:"shares"`
	Purchases      int64     `json:"purchases"`
	Revenue        float64   `json:"revenue"`
	NewSubscribers int64     `json:"newSubscribers"`
	AvgTimeSpent   int       `json:"avgTimeSpent"`
	AvgScrollDepth float64   `json:"avgScrollDepth"`
}

// ConversionFunnel is the per-article rollup, unique per (article, date).
type ConversionFunnel struct {
	ID          uuid.UUID `json:"id"`
	ArticleID   uuid.UUID `json:"articleId"`
	Date        time.Time `json:"date"`
	Views       int64     `json:"views"`
	UniqueViews int64     `json:"uniqueViews"`
	Scrolled50  int64     `json:"scrolled50"`
	Scrolled75  int64     `json:"scrolled75"`
	Completed   int64     `json:"completed"`
	Liked       int64     `json:"liked"`
	Commented   int64     `json:"commented"`
	Shared      int64     `json:"shared"`
	Purchases   int64     `json:"purchases"`
	Revenue     float64   `json:"revenue"`
}

type TrafficSource struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	Source    string    `json:"source"`
	Medium    string    `json:"medium,omitempty"`
	Sessions  int64     `json:"sessions"`
	PageViews int64     `json:"pageViews"`
	Revenue   float64   `json:"revenue"`
}

type ReaderBehavior struct {
	ID               uuid.UUID    `json:"id"`
	UserID           uuid.UUID    `json:"userId"`
	User             *UserSummary `json:"user,omitempty"`
	TotalSpent       float64      `json:"totalSpent"`
	ArticlesRead     int          `json:"articlesRead"`
	ReturningVisitor bool         `json:"returningVisitor"`
	LastVisit        time.Time    `json:"lastVisit"`
}
