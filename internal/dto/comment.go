package dto

// CreateCommentRequest carries Name and Email for anonymous commenters;
// authenticated requests ignore both.
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	ParentID string `json:"parentId,omitempty" validate:"omitempty,uuid"`
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

type ModerateCommentRequest struct {
	Approved bool `json:"approved"`
}
