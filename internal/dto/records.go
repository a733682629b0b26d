package dto

// AddGradeRequest records one appraisal for a student. Month and year
// default to the current period when omitted.
type AddGradeRequest struct {
	Value   *int    `json:"value" validate:"required"`
	Subject *string `json:"subject"`
	Comment *string `json:"comment"`
	Month   *int    `json:"month"`
	Year    *int    `json:"year"`
}

// AddBonusRequest awards bonus points to a student.
type AddBonusRequest struct {
	Amount *int    `json:"amount" validate:"required"`
	Reason *string `json:"reason"`
}
