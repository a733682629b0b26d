package dto

// CreateTeacherRequest is the admin payload for registering a teacher
// account. The user and teacher records are created together.
type CreateTeacherRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"phone"`
}

// CreateGroupRequest is the admin payload for opening a group.
type CreateGroupRequest struct {
	Name      string `json:"name" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"required"`
}

// CreateStudentRequest is the admin payload for enrolling a student. The
// login email doubles as contact email when none is given.
type CreateStudentRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required"`
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name" validate:"required"`
	GroupID      string  `json:"group_id" validate:"required"`
	ContactEmail *string `json:"contact_email"`
	Phone        *string `json:"phone"`
}

// SetPasswordRequest is the admin payload for resetting an account password.
type SetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}
