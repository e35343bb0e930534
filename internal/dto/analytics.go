package dto

type TrackViewRequest struct {
	ArticleID string `json:"articleId" validate:"required,uuid"`
	SessionID string `json:"sessionId" validate:"required,max=128"`
	Referer   string `json:"referer,omitempty"`
	EntryPage bool   `json:"entryPage"`
}

type TrackEngagementRequest struct {
	ArticleID   string   `json:"articleId" validate:"required,uuid"`
	SessionID   string   `json:"sessionId" validate:"required,max=128"`
	TimeSpent   *int     `json:"timeSpent,omitempty" validate:"omitempty,gte=0"`
	ScrollDepth *float64 `json:"scrollDepth,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type TrackJourneyRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=128"`
	ArticleID string `json:"articleId,omitempty" validate:"omitempty,uuid"`
	Action    string `json:"action" validate:"required,max=100"`
	Metadata  string `json:"metadata,omitempty"`
}

type DashboardQuery struct {
	Days int `query:"days" validate:"omitempty,gte=1,lte=365"`
}
