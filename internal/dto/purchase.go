package dto

type CreateIntentRequest struct {
	ArticleID string `json:"articleId" validate:"required,uuid"`
}

type CreateIntentResponse struct {
	ClientSecret string  `json:"clientSecret"`
	PurchaseID   string  `json:"purchaseId"`
	Amount       float64 `json:"amount"`
}

type ConfirmPurchaseRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}
