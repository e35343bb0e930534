package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
)

// Sender is the transport; *Mailer satisfies it.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type Store interface {
	CampaignByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	ActiveSubscribers(ctx context.Context, tag string) ([]domain.Subscriber, error)
	MarkCampaignSent(ctx context.Context, id uuid.UUID, sentCount int) error
	WeeklyDigestRecipients(ctx context.Context) ([]domain.EmailSubscription, error)
	ImmediateRecipients(ctx context.Context) ([]domain.EmailSubscription, error)
	ArticlesPublishedSince(ctx context.Context, since time.Time) ([]domain.Article, error)
	CreateNotification(ctx context.Context, n *domain.Notification) error
}

// Service sends newsletter campaigns and the weekly digest. Delivery is
// best-effort per recipient: one bad address never aborts the batch.
type Service struct {
	store   Store
	sender  Sender
	baseURL string
}

func NewService(store Store, sender Sender, baseURL string) *Service {
	return &Service{store: store, sender: sender, baseURL: baseURL}
}

// SendCampaign delivers a campaign to every active subscriber matching its
// target tags and stamps it sent with the delivered count.
func (s *Service) SendCampaign(ctx context.Context, campaignID uuid.UUID) (int, error) {
	campaign, err := s.store.CampaignByID(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	if campaign.SentAt != nil {
		return 0, apperr.NewConflict("Campaign already sent")
	}

	subscribers, err := s.store.ActiveSubscribers(ctx, campaign.TargetTags)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, sub := range subscribers {
		body, err := RenderCampaign(campaign, s.unsubscribeURL(sub.Email))
		if err != nil {
			return sent, err
		}
		if err := s.sender.Send(sub.Email, campaign.Subject, body); err != nil {
			slog.Error("Failed to deliver campaign mail", "email", sub.Email, "error", err)
			continue
		}
		sent++
	}

	if err := s.store.MarkCampaignSent(ctx, campaignID, sent); err != nil {
		return sent, err
	}

	slog.Info("Campaign sent", "campaign_id", campaignID, "recipients", sent, "subscribers", len(subscribers))
	return sent, nil
}

// SendWeeklyDigest mails the past week's published articles to every user
// on a WEEKLY frequency.
func (s *Service) SendWeeklyDigest(ctx context.Context) (int, error) {
	recipients, err := s.store.WeeklyDigestRecipients(ctx)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		slog.Info("Weekly digest skipped, no recipients")
		return 0, nil
	}

	articles, err := s.store.ArticlesPublishedSince(ctx, time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		return 0, err
	}

	body, err := RenderDigest(s.baseURL, articles)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range recipients {
		if err := s.sender.Send(r.Email, "Your weekly digest", body); err != nil {
			slog.Error("Failed to deliver digest mail", "email", r.Email, "error", err)
			continue
		}
		sent++
	}

	slog.Info("Weekly digest sent", "recipients", sent, "articles", len(articles))
	return sent, nil
}

// AnnounceArticle fans a just-published article out to readers who asked
// for immediate delivery: an in-app notification each, mirrored by mail.
// Returns how many readers got the announcement.
func (s *Service) AnnounceArticle(ctx context.Context, article *domain.Article) (int, error) {
	recipients, err := s.store.ImmediateRecipients(ctx)
	if err != nil {
		return 0, err
	}

	message := article.Excerpt
	if message == "" {
		message = "A new article was just published."
	}

	sent := 0
	for _, sub := range recipients {
		n := &domain.Notification{
			UserID:  sub.UserID,
			Type:    domain.NotificationNewArticle,
			Title:   "New article: " + article.Title,
			Message: message,
			Link:    fmt.Sprintf("%s/articles/%s", s.baseURL, article.Slug),
		}
		if err := s.store.CreateNotification(ctx, n); err != nil {
			slog.Error("Failed to create article notification", "user_id", sub.UserID, "error", err)
			continue
		}
		if err := s.NotifyByEmail(sub.Email, n); err != nil {
			slog.Error("Failed to mail article announcement", "email", sub.Email, "error", err)
			continue
		}
		sent++
	}

	slog.Info("Article announced", "article_id", article.ID, "recipients", sent, "subscribed", len(recipients))
	return sent, nil
}

// NotifyByEmail mirrors an in-app notification to the user's mailbox.
func (s *Service) NotifyByEmail(to string, n *domain.Notification) error {
	body, err := RenderNotification(n)
	if err != nil {
		return err
	}
	return s.sender.Send(to, n.Title, body)
}

func (s *Service) unsubscribeURL(email string) string {
	return fmt.Sprintf("%s/newsletter/unsubscribe?email=%s", s.baseURL, email)
}
