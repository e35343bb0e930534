package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/mileusna/useragent"
)

type CaptureStore interface {
	InsertArticleView(ctx context.Context, view *domain.ArticleView) error
	TouchUserSession(ctx context.Context, session *domain.UserSession) error
	UpdateViewEngagement(ctx context.Context, articleID uuid.UUID, sessionID string, timeSpent *int, scrollDepth *float64) error
	InsertUserJourney(ctx context.Context, journey *domain.UserJourney) error
	IncrementArticleViews(ctx context.Context, id uuid.UUID) error
}

// Capture ingests raw client events: page views, engagement pings and
// journey steps.
type Capture struct {
	store CaptureStore
}

func NewCapture(store CaptureStore) *Capture {
	return &Capture{store: store}
}

// ClientInfo is what the transport layer knows about the request origin.
type ClientInfo struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// TrackView records one article view, refreshes the visitor session, and
// bumps the article's denormalized counter.
func (c *Capture) TrackView(ctx context.Context, articleID uuid.UUID, userID *uuid.UUID, sessionID string, entryPage bool, client ClientInfo) error {
	device, browser, os := parseUserAgent(client.UserAgent)

	view := &domain.ArticleView{
		ArticleID: articleID,
		UserID:    userID,
		SessionID: sessionID,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		Referer:   client.Referer,
		Device:    device,
		Browser:   browser,
		OS:        os,
		EntryPage: entryPage,
	}
	if err := c.store.InsertArticleView(ctx, view); err != nil {
		return fmt.Errorf("failed to track view: %w", err)
	}

	session := &domain.UserSession{
		SessionID: sessionID,
		UserID:    userID,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		Device:    device,
		Browser:   browser,
		OS:        os,
	}
	if err := c.store.TouchUserSession(ctx, session); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return c.store.IncrementArticleViews(ctx, articleID)
}

// TrackEngagement attaches time-spent and scroll-depth readings sent by the
// client after the initial view.
func (c *Capture) TrackEngagement(ctx context.Context, articleID uuid.UUID, sessionID string, timeSpent *int, scrollDepth *float64) error {
	return c.store.UpdateViewEngagement(ctx, articleID, sessionID, timeSpent, scrollDepth)
}

// TrackJourney appends a navigation step for the session.
func (c *Capture) TrackJourney(ctx context.Context, sessionID string, userID, articleID *uuid.UUID, action, metadata string) error {
	journey := &domain.UserJourney{
		SessionID: sessionID,
		UserID:    userID,
		ArticleID: articleID,
		Action:    action,
		Metadata:  metadata,
	}
	return c.store.InsertUserJourney(ctx, journey)
}

func parseUserAgent(ua string) (device, browser, os string) {
	if ua == "" {
		return "", "", ""
	}
	parsed := useragent.Parse(ua)

	switch {
	case parsed.Mobile:
		device = "mobile"
	case parsed.Tablet:
		device = "tablet"
	case parsed.Bot:
		device = "bot"
	default:
		device = "desktop"
	}
	return device, parsed.Name, parsed.OS
}
