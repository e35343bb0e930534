package payments_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

const testWebhookSecret = "whsec_test_secret"

type fakePayStore struct {
	article       *domain.Article
	buyer         *domain.User
	purchase      *domain.Purchase
	statusUpdates []domain.PurchaseStatus
	revenue       []domain.RevenueEntry
	notifications []domain.Notification
}

func (f *fakePayStore) ArticleByID(context.Context, uuid.UUID) (*domain.Article, error) {
	if f.article == nil {
		return nil, apperr.NewNotFound("Article not found")
	}
	return f.article, nil
}

func (f *fakePayStore) UserByID(context.Context, uuid.UUID) (*domain.User, error) {
	if f.buyer == nil {
		return nil, apperr.NewNotFound("User not found")
	}
	return f.buyer, nil
}

func (f *fakePayStore) HasPurchased(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakePayStore) CreatePurchase(_ context.Context, p *domain.Purchase) error {
	f.purchase = p
	return nil
}

func (f *fakePayStore) PurchaseByPaymentID(_ context.Context, paymentID string) (*domain.Purchase, error) {
	if f.purchase == nil || f.purchase.StripePaymentID != paymentID {
		return nil, apperr.NewNotFound("Purchase not found")
	}
	return f.purchase, nil
}

func (f *fakePayStore) SetPurchaseStatus(_ context.Context, _ string, status domain.PurchaseStatus) (int64, error) {
	f.statusUpdates = append(f.statusUpdates, status)
	f.purchase.Status = status
	return 1, nil
}

func (f *fakePayStore) InsertRevenueEntry(_ context.Context, entry *domain.RevenueEntry) error {
	f.revenue = append(f.revenue, *entry)
	return nil
}

func (f *fakePayStore) CreateNotification(_ context.Context, n *domain.Notification) error {
	f.notifications = append(f.notifications, *n)
	return nil
}

type fakePayMailer struct {
	sent []string
}

func (f *fakePayMailer) NotifyByEmail(to string, _ *domain.Notification) error {
	f.sent = append(f.sent, to)
	return nil
}

func signedEvent(t *testing.T, eventType, paymentID string) ([]byte, string) {
	t.Helper()
	payload := fmt.Sprintf(
		`{"id":"evt_test","api_version":%q,"type":%q,"data":{"object":{"id":%q,"object":"payment_intent"}}}`,
		stripe.APIVersion, eventType, paymentID,
	)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func pendingPurchaseStore() *fakePayStore {
	buyer := &domain.User{ID: uuid.New(), Email: "buyer@example.com", Name: "Buyer"}
	article := &domain.Article{ID: uuid.New(), Title: "Paid Piece", Slug: "paid-piece", IsPremium: true, Price: 9.99}
	return &fakePayStore{
		article: article,
		buyer:   buyer,
		purchase: &domain.Purchase{
			ID:              uuid.New(),
			UserID:          buyer.ID,
			ArticleID:       article.ID,
			Amount:          9.99,
			StripePaymentID: "pi_test_123",
			Status:          domain.PurchasePending,
		},
	}
}

func TestHandleWebhook_SucceededCompletesPurchase(t *testing.T) {
	store := pendingPurchaseStore()
	mailer := &fakePayMailer{}
	svc := payments.NewService(payments.Config{WebhookSecret: testWebhookSecret}, store, mailer)

	payload, header := signedEvent(t, "payment_intent.succeeded", "pi_test_123")
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, header))

	assert.Equal(t, []domain.PurchaseStatus{domain.PurchaseCompleted}, store.statusUpdates)

	require.Len(t, store.revenue, 1)
	entry := store.revenue[0]
	assert.Equal(t, 9.99, entry.Amount)
	assert.InDelta(t, domain.EstimateStripeFee(9.99), entry.StripeFee, 1e-9)
	assert.InDelta(t, 9.99-entry.StripeFee, entry.NetRevenue, 1e-9)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, domain.NotificationPurchase, store.notifications[0].Type)
	assert.Contains(t, store.notifications[0].Message, "Paid Piece")

	assert.Equal(t, []string{"buyer@example.com"}, mailer.sent)
}

func TestHandleWebhook_AlreadyCompletedIsNoOp(t *testing.T) {
	store := pendingPurchaseStore()
	store.purchase.Status = domain.PurchaseCompleted
	mailer := &fakePayMailer{}
	svc := payments.NewService(payments.Config{WebhookSecret: testWebhookSecret}, store, mailer)

	payload, header := signedEvent(t, "payment_intent.succeeded", "pi_test_123")
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, header))

	assert.Empty(t, store.statusUpdates)
	assert.Empty(t, store.revenue)
	assert.Empty(t, mailer.sent)
}

func TestHandleWebhook_FailedMarksPurchaseFailed(t *testing.T) {
	store := pendingPurchaseStore()
	svc := payments.NewService(payments.Config{WebhookSecret: testWebhookSecret}, store, &fakePayMailer{})

	payload, header := signedEvent(t, "payment_intent.payment_failed", "pi_test_123")
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, header))

	assert.Equal(t, []domain.PurchaseStatus{domain.PurchaseFailed}, store.statusUpdates)
	assert.Empty(t, store.revenue)
}

func TestHandleWebhook_RejectsBadSignature(t *testing.T) {
	store := pendingPurchaseStore()
	svc := payments.NewService(payments.Config{WebhookSecret: testWebhookSecret}, store, &fakePayMailer{})

	payload, _ := signedEvent(t, "payment_intent.succeeded", "pi_test_123")
	err := svc.HandleWebhook(context.Background(), payload, "t=1,v1=deadbeef")

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, store.statusUpdates)
}
