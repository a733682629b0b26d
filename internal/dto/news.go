package dto

// CreateNewsRequest publishes a global announcement.
type CreateNewsRequest struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	ImageURL *string `json:"image_url"`
}
