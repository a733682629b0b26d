package models

import "time"

// Group is a class of students owned by exactly one teacher.
type Group struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroupDetail adds the owning teacher's display fields and a student count.
type GroupDetail struct {
	Group
	TeacherName  string `db:"teacher_name" json:"teacher_name"`
	TeacherEmail string `db:"teacher_email" json:"teacher_email"`
	StudentCount int    `db:"student_count" json:"student_count"`
}

// GroupFilter scopes group listings; TeacherID is set for teacher callers.
type GroupFilter struct {
	TeacherID string
}
