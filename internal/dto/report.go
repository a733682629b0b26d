package dto

// SendReportRequest selects the period for a monthly report dispatch. The
// current calendar month is used when the fields are omitted.
type SendReportRequest struct {
	Month *int `json:"month"`
	Year  *int `json:"year"`
}
