package dto

type ReactionRequest struct {
	Type string `json:"type" validate:"required,oneof=LIKE LOVE INSIGHTFUL INTERESTING HELPFUL"`
}

type ShareRequest struct {
	Platform string `json:"platform" validate:"required,oneof=TWITTER FACEBOOK LINKEDIN REDDIT EMAIL COPY_LINK WHATSAPP"`
}
