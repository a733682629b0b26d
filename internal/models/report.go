package models

// MonthlyReport aggregates a student's results for one calendar month.
type MonthlyReport struct {
	StudentID    string  `json:"student_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	ContactEmail string  `json:"contact_email"`
	GroupName    string  `json:"group_name"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	Grades       []Grade `json:"grades"`
	Bonuses      []Bonus `json:"bonuses"`
	AverageGrade int     `json:"average_grade"`
	TotalBonus   int     `json:"total_bonus"`
}

// ReportFailure records a single failed send in a bulk dispatch.
type ReportFailure struct {
	StudentID string `json:"student_id"`
	Error     string `json:"error"`
}

// BulkReportResult reports the outcome of sending monthly reports to every
// student. One failed send never aborts the remaining sends.
type BulkReportResult struct {
	Total  int             `json:"total"`
	Sent   int             `json:"sent"`
	Failed []ReportFailure `json:"failed"`
}
