package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Subscribe inserts a subscriber or reactivates a previously unsubscribed
// email.
func (s *Store) Subscribe(ctx context.Context, subscriber *domain.Subscriber) error {
	if subscriber.ID == uuid.Nil {
		subscriber.ID = uuid.New()
	}
	subscriber.IsActive = true
	subscriber.SubscribedAt = time.Now()

	cmd := `
        INSERT INTO newsletter_subscribers (id, email, user_id, tags, is_active, subscribed_at)
        VALUES ($1, $2, $3, $4, TRUE, $5)
        ON CONFLICT (email) DO UPDATE
        SET is_active = TRUE, tags = EXCLUDED.tags, subscribed_at = EXCLUDED.subscribed_at
        WHERE NOT newsletter_subscribers.is_active;
    `
	tag, err := s.db.Exec(ctx, cmd,
		subscriber.ID, subscriber.Email, subscriber.UserID, subscriber.Tags, subscriber.SubscribedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewConflict("Email already subscribed")
	}
	return nil
}

func (s *Store) Unsubscribe(ctx context.Context, email string) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE newsletter_subscribers SET is_active = FALSE WHERE email = $1;
    `, email)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Subscriber not found")
	}
	return nil
}

// ActiveSubscribers returns active subscribers, optionally narrowed to those
// whose tag list contains the given tag.
func (s *Store) ActiveSubscribers(ctx context.Context, tag string) ([]domain.Subscriber, error) {
	cmd := `
        SELECT id, email, user_id, tags, is_active, subscribed_at
        FROM newsletter_subscribers
        WHERE is_active
    `
	args := []any{}
	if tag != "" {
		cmd += ` AND tags ILIKE $1`
		args = append(args, "%"+tag+"%")
	}
	cmd += ` ORDER BY subscribed_at ASC;`

	rows, err := s.db.Query(ctx, cmd, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []domain.Subscriber
	for rows.Next() {
		var sub domain.Subscriber
		err := rows.Scan(&sub.ID, &sub.Email, &sub.UserID, &sub.Tags, &sub.IsActive, &sub.SubscribedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, sub)
	}
	return subscribers, rows.Err()
}

func (s *Store) CountNewSubscribers(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM newsletter_subscribers
        WHERE subscribed_at >= $1 AND subscribed_at < $2;
    `, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return n, nil
}

func (s *Store) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	if campaign.ID == uuid.Nil {
		campaign.ID = uuid.New()
	}
	campaign.CreatedAt = time.Now()

	cmd := `
        INSERT INTO newsletter_campaigns (id, subject, content, target_tags, created_at)
        VALUES ($1, $2, $3, $4, $5);
    `
	_, err := s.db.Exec(ctx, cmd,
		campaign.ID, campaign.Subject, campaign.Content, campaign.TargetTags, campaign.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

func (s *Store) CampaignByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	var c domain.Campaign
	err := s.db.QueryRow(ctx, `
        SELECT id, subject, content, target_tags, sent_at, sent_count, created_at
        FROM newsletter_campaigns WHERE id = $1;
    `, id).Scan(&c.ID, &c.Subject, &c.Content, &c.TargetTags, &c.SentAt, &c.SentCount, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Campaign not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}
	return &c, nil
}

func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, subject, content, target_tags, sent_at, sent_count, created_at
        FROM newsletter_campaigns ORDER BY created_at DESC;
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		err := rows.Scan(&c.ID, &c.Subject, &c.Content, &c.TargetTags, &c.SentAt, &c.SentCount, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

func (s *Store) MarkCampaignSent(ctx context.Context, id uuid.UUID, sentCount int) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE newsletter_campaigns SET sent_at = now(), sent_count = $2 WHERE id = $1;
    `, id, sentCount)
	if err != nil {
		return fmt.Errorf("failed to mark campaign sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Campaign not found")
	}
	return nil
}

func (s *Store) UpsertEmailSubscription(ctx context.Context, sub *domain.EmailSubscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.UpdatedAt = time.Now()

	cmd := `
        INSERT INTO email_subscriptions (id, user_id, email, frequency, topics, active, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_id) DO UPDATE
        SET frequency = EXCLUDED.frequency, topics = EXCLUDED.topics,
            active = EXCLUDED.active, updated_at = EXCLUDED.updated_at;
    `
	_, err := s.db.Exec(ctx, cmd,
		sub.ID, sub.UserID, sub.Email, sub.Frequency, sub.Topics, sub.Active, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert email subscription: %w", err)
	}
	return nil
}

func (s *Store) EmailSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*domain.EmailSubscription, error) {
	var sub domain.EmailSubscription
	err := s.db.QueryRow(ctx, `
        SELECT id, user_id, email, frequency, topics, active, updated_at
        FROM email_subscriptions WHERE user_id = $1;
    `, userID).Scan(&sub.ID, &sub.UserID, &sub.Email, &sub.Frequency, &sub.Topics, &sub.Active, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Email preferences not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan email subscription: %w", err)
	}
	return &sub, nil
}

// WeeklyDigestRecipients are users who opted into weekly email delivery.
func (s *Store) WeeklyDigestRecipients(ctx context.Context) ([]domain.EmailSubscription, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, user_id, email, frequency, topics, active, updated_at
        FROM email_subscriptions WHERE active AND frequency = 'WEEKLY';
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query digest recipients: %w", err)
	}
	defer rows.Close()

	var subs []domain.EmailSubscription
	for rows.Next() {
		var sub domain.EmailSubscription
		err := rows.Scan(&sub.ID, &sub.UserID, &sub.Email, &sub.Frequency, &sub.Topics, &sub.Active, &sub.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan digest recipient: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// ImmediateRecipients are users who opted into per-event email delivery.
func (s *Store) ImmediateRecipients(ctx context.Context) ([]domain.EmailSubscription, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, user_id, email, frequency, topics, active, updated_at
        FROM email_subscriptions WHERE active AND frequency = 'IMMEDIATE';
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query immediate recipients: %w", err)
	}
	defer rows.Close()

	var subs []domain.EmailSubscription
	for rows.Next() {
		var sub domain.EmailSubscription
		err := rows.Scan(&sub.ID, &sub.UserID, &sub.Email, &sub.Frequency, &sub.Topics, &sub.Active, &sub.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan immediate recipient: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// ListSubscribers is the admin view: all subscribers, optionally filtered by
// active state and tag.
func (s *Store) ListSubscribers(ctx context.Context, active *bool, tag string) ([]domain.Subscriber, error) {
	q := squirrel.Select("id", "email", "user_id", "tags", "is_active", "subscribed_at").
		From("newsletter_subscribers").
		OrderBy("subscribed_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if active != nil {
		q = q.Where(squirrel.Eq{"is_active": *active})
	}
	if tag != "" {
		q = q.Where(squirrel.ILike{"tags": "%" + tag + "%"})
	}

	cmd, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build subscriber query: %w", err)
	}

	rows, err := s.db.Query(ctx, cmd, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []domain.Subscriber
	for rows.Next() {
		var sub domain.Subscriber
		err := rows.Scan(&sub.ID, &sub.Email, &sub.UserID, &sub.Tags, &sub.IsActive, &sub.SubscribedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, sub)
	}
	return subscribers, rows.Err()
}
