package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/webhook"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
}

type Store interface {
	ArticleByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	HasPurchased(ctx context.Context, userID, articleID uuid.UUID) (bool, error)
	CreatePurchase(ctx context.Context, purchase *domain.Purchase) error
	PurchaseByPaymentID(ctx context.Context, paymentID string) (*domain.Purchase, error)
	SetPurchaseStatus(ctx context.Context, paymentID string, status domain.PurchaseStatus) (int64, error)
	InsertRevenueEntry(ctx context.Context, entry *domain.RevenueEntry) error
	CreateNotification(ctx context.Context, n *domain.Notification) error
}

// Mailer delivers the purchase confirmation; *email.Service satisfies it.
type Mailer interface {
	NotifyByEmail(to string, n *domain.Notification) error
}

// Service drives the premium-article purchase flow against Stripe.
type Service struct {
	store         Store
	mail          Mailer
	webhookSecret string
}

func NewService(cfg Config, store Store, mail Mailer) *Service {
	stripe.Key = cfg.SecretKey
	return &Service{store: store, mail: mail, webhookSecret: cfg.WebhookSecret}
}

// IntentResult is returned to the client to drive the card form.
type IntentResult struct {
	ClientSecret string
	PurchaseID   uuid.UUID
	Amount       float64
}

// CreateIntent opens a payment intent for a premium article and records a
// PENDING purchase keyed by the intent id.
func (s *Service) CreateIntent(ctx context.Context, userID, articleID uuid.UUID) (*IntentResult, error) {
	article, err := s.store.ArticleByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !article.IsPremium || article.Price <= 0 {
		return nil, apperr.NewValidation("Article is not purchasable")
	}

	already, err := s.store.HasPurchased(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, apperr.NewConflict("Article already purchased")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(article.Price * 100)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata("articleId", articleID.String())
	params.AddMetadata("userId", userID.String())

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	purchase := &domain.Purchase{
		UserID:          userID,
		ArticleID:       articleID,
		Amount:          article.Price,
		StripePaymentID: intent.ID,
		Status:          domain.PurchasePending,
	}
	if err := s.store.CreatePurchase(ctx, purchase); err != nil {
		return nil, err
	}

	return &IntentResult{
		ClientSecret: intent.ClientSecret,
		PurchaseID:   purchase.ID,
		Amount:       article.Price,
	}, nil
}

// Confirm completes a purchase after the client reports payment success.
// The same completion also arrives via webhook; both paths check the stored
// status before completing, without a transaction, so a concurrent
// double-fire can still record revenue twice.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, paymentIntentID string) (*domain.Purchase, error) {
	intent, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, apperr.NewValidation("Payment has not succeeded")
	}

	purchase, err := s.store.PurchaseByPaymentID(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	if purchase.UserID != userID {
		return nil, apperr.NewForbidden("Purchase belongs to another user")
	}

	if purchase.Status != domain.PurchaseCompleted {
		if err := s.complete(ctx, purchase); err != nil {
			return nil, err
		}
		purchase.Status = domain.PurchaseCompleted
	}
	return purchase, nil
}

// HandleWebhook verifies and applies a Stripe event.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return apperr.NewValidationWrap("invalid webhook signature", err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("failed to parse webhook payload: %w", err)
		}
		purchase, err := s.store.PurchaseByPaymentID(ctx, intent.ID)
		if err != nil {
			return err
		}
		if purchase.Status != domain.PurchaseCompleted {
			return s.complete(ctx, purchase)
		}
		return nil

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("failed to parse webhook payload: %w", err)
		}
		if _, err := s.store.SetPurchaseStatus(ctx, intent.ID, domain.PurchaseFailed); err != nil {
			return err
		}
		slog.Info("Purchase marked failed", "payment_id", intent.ID)
		return nil

	default:
		slog.Debug("Ignoring webhook event", "type", event.Type)
		return nil
	}
}

func (s *Service) complete(ctx context.Context, purchase *domain.Purchase) error {
	if _, err := s.store.SetPurchaseStatus(ctx, purchase.StripePaymentID, domain.PurchaseCompleted); err != nil {
		return err
	}

	fee := domain.EstimateStripeFee(purchase.Amount)
	entry := &domain.RevenueEntry{
		ArticleID:       purchase.ArticleID,
		PurchaseID:      purchase.ID,
		UserID:          purchase.UserID,
		Amount:          purchase.Amount,
		StripeFee:       fee,
		NetRevenue:      purchase.Amount - fee,
		StripeSessionID: purchase.StripePaymentID,
	}
	if err := s.store.InsertRevenueEntry(ctx, entry); err != nil {
		return err
	}

	notification := &domain.Notification{
		UserID:  purchase.UserID,
		Type:    domain.NotificationPurchase,
		Title:   "Purchase complete",
		Message: "Your article purchase is complete. Enjoy reading!",
	}
	if article, err := s.store.ArticleByID(ctx, purchase.ArticleID); err == nil {
		notification.Message = fmt.Sprintf("Your purchase of %q is complete. Enjoy reading!", article.Title)
		notification.Link = "/articles/" + article.Slug
	}
	if err := s.store.CreateNotification(ctx, notification); err != nil {
		slog.Error("Failed to create purchase notification", "error", err)
	}

	// confirmation mail is transactional, sent regardless of digest prefs
	if user, err := s.store.UserByID(ctx, purchase.UserID); err != nil {
		slog.Error("Failed to load buyer for confirmation mail", "user_id", purchase.UserID, "error", err)
	} else if err := s.mail.NotifyByEmail(user.Email, notification); err != nil {
		slog.Error("Failed to mail purchase confirmation", "email", user.Email, "error", err)
	}

	slog.Info("Purchase completed",
		"purchase_id", purchase.ID,
		"payment_id", purchase.StripePaymentID,
		"amount", purchase.Amount,
		"fee", fee)
	return nil
}
