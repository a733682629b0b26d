package dto

import "github.com/bukhari-academy/academy-api/internal/models"

// UpdateProfileRequest is the student's self-service edit. The current
// password must be supplied to change it.
type UpdateProfileRequest struct {
	models.ProfileUpdate
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password"`
}
