package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReactionType string

const (
	ReactionLike        ReactionType = "LIKE"
	ReactionLove        ReactionType = "LOVE"
	ReactionInsightful  ReactionType = "INSIGHTFUL"
	ReactionInteresting ReactionType = "INTERESTING"
	ReactionHelpful     ReactionType = "HELPFUL"
)

func ValidReaction(t ReactionType) bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionInsightful, ReactionInteresting, ReactionHelpful:
		return true
	}
	return false
}

type SharePlatform string

const (
	ShareTwitter  SharePlatform = "TWITTER"
	ShareFacebook SharePlatform = "FACEBOOK"
	ShareLinkedIn SharePlatform = "LINKEDIN"
	ShareReddit   SharePlatform = "REDDIT"
	ShareEmail    SharePlatform = "EMAIL"
	ShareCopyLink SharePlatform = "COPY_LINK"
	ShareWhatsApp SharePlatform = "WHATSAPP"
)

func ValidSharePlatform(p SharePlatform) bool {
	switch p {
	case ShareTwitter, ShareFacebook, ShareLinkedIn, ShareReddit, ShareEmail, ShareCopyLink, ShareWhatsApp:
		return true
	}
	return false
}

// ArticleLike is keyed by user when authenticated, by IP otherwise.
type ArticleLike struct {
	ID        uuid.UUID  `json:"id"`
	ArticleID uuid.UUID  `json:"articleId"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	IPAddress string     `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Reaction struct {
	ID        uuid.UUID    `json:"id"`
	ArticleID uuid.UUID    `json:"articleId"`
	Type      ReactionType `json:"type"`
	UserID    *uuid.UUID   `json:"userId,omitempty"`
	IPAddress string       `json:"-"`
	CreatedAt time.Time    `json:"createdAt"`
}

type Share struct {
	ID        uuid.UUID     `json:"id"`
	ArticleID uuid.UUID     `json:"articleId"`
	Platform  SharePlatform `json:"platform"`
	UserID    *uuid.UUID    `json:"userId,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

type Bookmark struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	ArticleID uuid.UUID `json:"articleId"`
	Article   *Article  `json:"article,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
