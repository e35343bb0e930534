package dto

type SubscribeRequest struct {
	Email string   `json:"email" validate:"required,email"`
	Tags  []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
}

type CreateCampaignRequest struct {
	Subject    string   `json:"subject" validate:"required,min=1,max=300"`
	Content    string   `json:"content" validate:"required"`
	TargetTags []string `json:"targetTags,omitempty" validate:"omitempty,dive,min=1,max=50"`
}

type EmailPreferencesRequest struct {
	Frequency string   `json:"frequency" validate:"required,oneof=IMMEDIATE DAILY WEEKLY"`
	Topics    []string `json:"topics,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Active    *bool    `json:"active,omitempty"`
}
