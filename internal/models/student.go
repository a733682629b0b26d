package models

import "time"

// Student is the role-specific record owned 1:1 by a user with role=student.
// Every student belongs to exactly one group.
type Student struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	GroupID      string    `db:"group_id" json:"group_id"`
	ContactEmail string    `db:"contact_email" json:"contact_email"`
	LastName     string    `db:"last_name" json:"last_name"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StudentDetail joins login email and group name for listings.
type StudentDetail struct {
	Student
	LoginEmail string `db:"login_email" json:"login_email"`
	GroupName  string `db:"group_name" json:"group_name"`
}

// StudentFilter scopes student listings. TeacherID restricts results to the
// teacher's owned groups; GroupID narrows to one group.
type StudentFilter struct {
	GroupID   string
	TeacherID string
}

// StudentUpdate carries the admin partial update; nil fields are left
// unchanged (merge semantics).
type StudentUpdate struct {
	ContactEmail *string `json:"contact_email"`
	LastName     *string `json:"last_name"`
	FirstName    *string `json:"first_name"`
	GroupID      *string `json:"group_id"`
	Phone        *string `json:"phone"`
}

// StudentProfile is the student's own view: student + group + identity.
type StudentProfile struct {
	ID           string    `db:"id" json:"id"`
	ContactEmail string    `db:"contact_email" json:"contact_email"`
	LastName     string    `db:"last_name" json:"last_name"`
	FirstName    string    `db:"first_name" json:"first_name"`
	GroupID      string    `db:"group_id" json:"group_id"`
	GroupName    string    `db:"group_name" json:"group_name"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Email        string    `db:"email" json:"email"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Profile is the /me/profile payload. Students get the full joined view;
// other roles carry only their identity.
type Profile struct {
	User    *UserInfo       `json:"user,omitempty"`
	Student *StudentProfile `json:"profile,omitempty"`
}

// ProfileUpdate carries the student's own partial update. The restricted
// field set excludes group and role.
type ProfileUpdate struct {
	ContactEmail *string `json:"contact_email"`
	LastName     *string `json:"last_name"`
	FirstName    *string `json:"first_name"`
	Phone        *string `json:"phone"`
}
