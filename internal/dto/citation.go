package dto

type CreateCitationRequest struct {
	Authors string `json:"authors" validate:"required,max=500"`
	Title   string `json:"title" validate:"required,min=1,max=500"`
	Year    int    `json:"year,omitempty" validate:"omitempty,gte=0,lte=2100"`
	Journal string `json:"journal,omitempty" validate:"omitempty,max=300"`
	Volume  string `json:"volume,omitempty" validate:"omitempty,max=50"`
	Pages   string `json:"pages,omitempty" validate:"omitempty,max=50"`
	DOI     string `json:"doi,omitempty"`
	URL     string `json:"url,omitempty" validate:"omitempty,url"`
	Order   int    `json:"order" validate:"gte=0"`
}

type UpdateCitationRequest struct {
	Authors *string `json:"authors,omitempty" validate:"omitempty,max=500"`
	Title   *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Year    *int    `json:"year,omitempty" validate:"omitempty,gte=0,lte=2100"`
	Journal *string `json:"journal,omitempty" validate:"omitempty,max=300"`
	Volume  *string `json:"volume,omitempty" validate:"omitempty,max=50"`
	Pages   *string `json:"pages,omitempty" validate:"omitempty,max=50"`
	DOI     *string `json:"doi,omitempty"`
	URL     *string `json:"url,omitempty" validate:"omitempty,url"`
	Order   *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
}
