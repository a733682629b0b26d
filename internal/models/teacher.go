package models

import "time"

// Teacher is the role-specific record owned 1:1 by a user with role=teacher.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherDetail joins the teacher with its identity fields for listings.
type TeacherDetail struct {
	Teacher
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
