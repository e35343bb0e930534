package dto

type SaveProgressRequest struct {
	Progress float64 `json:"progress" validate:"gte=0,lte=100"`
}
