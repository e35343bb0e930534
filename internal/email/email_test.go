package email_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent    []string
	failFor string
}

func (f *fakeSender) Send(to, _, _ string) error {
	if to == f.failFor {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeStore struct {
	campaign      *domain.Campaign
	subscribers   []domain.Subscriber
	recipients    []domain.EmailSubscription
	immediate     []domain.EmailSubscription
	articles      []domain.Article
	notifications []domain.Notification
	sentCount     int
}

func (f *fakeStore) CampaignByID(context.Context, uuid.UUID) (*domain.Campaign, error) {
	return f.campaign, nil
}

func (f *fakeStore) ActiveSubscribers(context.Context, string) ([]domain.Subscriber, error) {
	return f.subscribers, nil
}

func (f *fakeStore) MarkCampaignSent(_ context.Context, _ uuid.UUID, count int) error {
	f.sentCount = count
	return nil
}

func (f *fakeStore) WeeklyDigestRecipients(context.Context) ([]domain.EmailSubscription, error) {
	return f.recipients, nil
}

func (f *fakeStore) ImmediateRecipients(context.Context) ([]domain.EmailSubscription, error) {
	return f.immediate, nil
}

func (f *fakeStore) ArticlesPublishedSince(context.Context, time.Time) ([]domain.Article, error) {
	return f.articles, nil
}

func (f *fakeStore) CreateNotification(_ context.Context, n *domain.Notification) error {
	f.notifications = append(f.notifications, *n)
	return nil
}

func TestSendCampaign_DeliversAndCountsOnlySuccesses(t *testing.T) {
	store := &fakeStore{
		campaign: &domain.Campaign{ID: uuid.New(), Subject: "Hello", Content: "<p>Hi</p>"},
		subscribers: []domain.Subscriber{
			{Email: "a@example.com"},
			{Email: "bad@example.com"},
			{Email: "c@example.com"},
		},
	}
	sender := &fakeSender{failFor: "bad@example.com"}
	svc := email.NewService(store, sender, "https://example.com")

	sent, err := svc.SendCampaign(context.Background(), store.campaign.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 2, store.sentCount)
	assert.Equal(t, []string{"a@example.com", "c@example.com"}, sender.sent)
}

func TestSendCampaign_RejectsAlreadySent(t *testing.T) {
	sentAt := time.Now()
	store := &fakeStore{
		campaign: &domain.Campaign{ID: uuid.New(), Subject: "Hello", SentAt: &sentAt},
	}
	svc := email.NewService(store, &fakeSender{}, "https://example.com")

	_, err := svc.SendCampaign(context.Background(), store.campaign.ID)

	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestSendWeeklyDigest(t *testing.T) {
	store := &fakeStore{
		recipients: []domain.EmailSubscription{
			{Email: "weekly@example.com"},
		},
		articles: []domain.Article{
			{Title: "Go tips", Slug: "go-tips", Excerpt: "Short read"},
		},
	}
	sender := &fakeSender{}
	svc := email.NewService(store, sender, "https://example.com")

	sent, err := svc.SendWeeklyDigest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestAnnounceArticle_NotifiesImmediateSubscribers(t *testing.T) {
	readerA := uuid.New()
	readerB := uuid.New()
	store := &fakeStore{
		immediate: []domain.EmailSubscription{
			{UserID: readerA, Email: "a@example.com"},
			{UserID: readerB, Email: "bad@example.com"},
		},
	}
	sender := &fakeSender{failFor: "bad@example.com"}
	svc := email.NewService(store, sender, "https://example.com")

	article := &domain.Article{
		ID:      uuid.New(),
		Title:   "Go Generics",
		Slug:    "go-generics",
		Excerpt: "A short tour.",
	}
	sent, err := svc.AnnounceArticle(context.Background(), article)

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"a@example.com"}, sender.sent)

	// the in-app notification lands even when the mail later bounces
	require.Len(t, store.notifications, 2)
	n := store.notifications[0]
	assert.Equal(t, readerA, n.UserID)
	assert.Equal(t, domain.NotificationNewArticle, n.Type)
	assert.Equal(t, "New article: Go Generics", n.Title)
	assert.Equal(t, "https://example.com/articles/go-generics", n.Link)
}

func TestRenderDigest_LinksArticles(t *testing.T) {
	body, err := email.RenderDigest("https://example.com", []domain.Article{
		{Title: "Go tips", Slug: "go-tips", Excerpt: "Short read"},
	})

	require.NoError(t, err)
	assert.Contains(t, body, "https://example.com/articles/go-tips")
	assert.Contains(t, body, "Go tips")
}
