package domain

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchaseCompleted PurchaseStatus = "COMPLETED"
	PurchaseFailed    PurchaseStatus = "FAILED"
)

// Purchase records a premium-article transaction keyed by the provider's
// payment intent id. A purchase moves PENDING -> COMPLETED (or FAILED) at
// most once; the confirm endpoint and the webhook both perform the same
// status-checked transition, without a transaction, so a concurrent
// double-fire can still insert two revenue rows. That gap exists in the
// original system and is preserved deliberately.
type Purchase struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"userId"`
	ArticleID       uuid.UUID      `json:"articleId"`
	Article         *Article       `json:"article,omitempty"`
	Amount          float64        `json:"amount"`
	StripePaymentID string         `json:"stripePaymentId"`
	Status          PurchaseStatus `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// StripeFeeRate and StripeFeeFlat form the fixed fee estimate applied to a
// completed purchase: amount*rate + flat.
const (
	StripeFeeRate = 0.029
	StripeFeeFlat = 0.30
)

type RevenueEntry struct {
	ID              uuid.UUID `json:"id"`
	ArticleID       uuid.UUID `json:"articleId"`
	PurchaseID      uuid.UUID `json:"purchaseId"`
	UserID          uuid.UUID `json:"userId"`
	Amount          float64   `json:"amount"`
	StripeFee       float64   `json:"stripeFee"`
	NetRevenue      float64   `json:"netRevenue"`
	StripeSessionID string    `json:"stripeSessionId"`
	PurchasedAt     time.Time `json:"purchasedAt"`
}

// EstimateStripeFee returns the provider fee estimate for an amount.
func EstimateStripeFee(amount float64) float64 {
	return amount*StripeFeeRate + StripeFeeFlat
}
