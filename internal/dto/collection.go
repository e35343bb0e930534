package dto

type CreateCollectionRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	CoverImage  string `json:"coverImage,omitempty" validate:"omitempty,url"`
	Order       int    `json:"order" validate:"gte=0"`
}

type UpdateCollectionRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	CoverImage  *string `json:"coverImage,omitempty" validate:"omitempty,url"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
}

type AddToCollectionRequest struct {
	ArticleID string `json:"articleId" validate:"required,uuid"`
	Order     int    `json:"order" validate:"gte=0"`
}

type ReorderCollectionRequest struct {
	ArticleIDs []string `json:"articleIds" validate:"required,min=1,dive,uuid"`
}
