package domain

import (
	"time"

	"github.com/google/uuid"
)

type Subscriber struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	UserID       *uuid.UUID `json:"userId,omitempty"`
	Tags         string     `json:"tags,omitempty"`
	IsActive     bool       `json:"isActive"`
	SubscribedAt time.Time  `json:"subscribedAt"`
}

type Campaign struct {
	ID         uuid.UUID  `json:"id"`
	Subject    string     `json:"subject"`
	Content    string     `json:"content"`
	TargetTags string     `json:"targetTags,omitempty"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
	SentCount  int        `json:"sentCount"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type EmailFrequency string

const (
	FrequencyImmediate EmailFrequency = "IMMEDIATE"
	FrequencyDaily     EmailFrequency = "DAILY"
	FrequencyWeekly    EmailFrequency = "WEEKLY"
)

func ValidFrequency(f EmailFrequency) bool {
	switch f {
	case FrequencyImmediate, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// EmailSubscription controls per-user transactional email preferences,
// distinct from the public newsletter subscriber list.
type EmailSubscription struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"userId"`
	Email     string         `json:"email"`
	Frequency EmailFrequency `json:"frequency"`
	Topics    string         `json:"topics,omitempty"`
	Active    bool           `json:"active"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
