package models

import "time"

// Grade bounds; violating input is rejected, never clamped.
const (
	GradeMin = 1
	GradeMax = 100
)

// Grade is a single appraisal for a student. Grades are append-only: no
// update or delete operation exists.
type Grade struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Value     int       `db:"value" json:"value"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	Month     int       `db:"month" json:"month"`
	Year      int       `db:"year" json:"year"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
