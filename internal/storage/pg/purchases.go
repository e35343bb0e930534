package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) CreatePurchase(ctx context.Context, purchase *domain.Purchase) error {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	if purchase.Status == "" {
		purchase.Status = domain.PurchasePending
	}
	now := time.Now()
	purchase.CreatedAt = now
	purchase.UpdatedAt = now

	cmd := `
        INSERT INTO purchases (id, user_id, article_id, amount, stripe_payment_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := s.db.Exec(ctx, cmd,
		purchase.ID, purchase.UserID, purchase.ArticleID, purchase.Amount,
		purchase.StripePaymentID, purchase.Status, purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.NewConflict("Purchase already recorded for this payment")
		}
		return fmt.Errorf("failed to insert purchase: %w", err)
	}
	return nil
}

func (s *Store) PurchaseByPaymentID(ctx context.Context, paymentID string) (*domain.Purchase, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, user_id, article_id, amount, stripe_payment_id, status, created_at, updated_at
        FROM purchases WHERE stripe_payment_id = $1;
    `, paymentID)
	return scanPurchase(row)
}

// SetPurchaseStatus updates the purchase row carrying the payment id. A
// unique index keeps one row per payment id.
func (s *Store) SetPurchaseStatus(ctx context.Context, paymentID string, status domain.PurchaseStatus) (int64, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE purchases SET status = $2, updated_at = now() WHERE stripe_payment_id = $1;
    `, paymentID, status)
	if err != nil {
		return 0, fmt.Errorf("failed to update purchase status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) InsertRevenueEntry(ctx context.Context, entry *domain.RevenueEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.PurchasedAt.IsZero() {
		entry.PurchasedAt = time.Now()
	}

	cmd := `
        INSERT INTO revenue_analytics (id, article_id, purchase_id, user_id, amount, stripe_fee, net_revenue, stripe_session_id, purchased_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := s.db.Exec(ctx, cmd,
		entry.ID, entry.ArticleID, entry.PurchaseID, entry.UserID, entry.Amount,
		entry.StripeFee, entry.NetRevenue, entry.StripeSessionID, entry.PurchasedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert revenue entry: %w", err)
	}
	return nil
}

// HasPurchased reports whether the user holds a completed purchase of the
// article. This is the premium-content unlock check.
func (s *Store) HasPurchased(ctx context.Context, userID, articleID uuid.UUID) (bool, error) {
	var purchased bool
	err := s.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM purchases
            WHERE user_id = $1 AND article_id = $2 AND status = 'COMPLETED'
        );
    `, userID, articleID).Scan(&purchased)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return purchased, nil
}

// PurchasesByUser is the purchase history: completed purchases only, newest
// first. Pending and failed attempts stay out of the list.
func (s *Store) PurchasesByUser(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	rows, err := s.db.Query(ctx, `
        SELECT p.id, p.user_id, p.article_id, p.amount, p.stripe_payment_id,
               p.status, p.created_at, p.updated_at,
               a.id, a.title, a.slug, a.excerpt, a.cover_image
        FROM purchases p JOIN articles a ON a.id = p.article_id
        WHERE p.user_id = $1 AND p.status = 'COMPLETED'
        ORDER BY p.created_at DESC;
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		var ref domain.ArticleRef
		err := rows.Scan(
			&p.ID, &p.UserID, &p.ArticleID, &p.Amount, &p.StripePaymentID,
			&p.Status, &p.CreatedAt, &p.UpdatedAt,
			&ref.ID, &ref.Title, &ref.Slug, &ref.Excerpt, &ref.CoverImage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.Article = &domain.Article{
			ID: ref.ID, Title: ref.Title, Slug: ref.Slug,
			Excerpt: ref.Excerpt, CoverImage: ref.CoverImage,
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var p domain.Purchase
	err := row.Scan(
		&p.ID, &p.UserID, &p.ArticleID, &p.Amount, &p.StripePaymentID,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Purchase not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan purchase: %w", err)
	}
	return &p, nil
}
