package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
	User      UserInfo  `json:"user"`
}

// StudentContext is the compact student snapshot embedded in tokens so that
// self-scope checks do not need a database round trip.
type StudentContext struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
}

// UserInfo describes the authenticated user in responses, including the
// role-specific context (teacher id or student snapshot).
type UserInfo struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Role      UserRole        `json:"role"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	TeacherID *string         `json:"teacher_id,omitempty"`
	Student   *StudentContext `json:"student,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	Role      UserRole        `json:"role"`
	TeacherID *string         `json:"teacher_id,omitempty"`
	Student   *StudentContext `json:"student,omitempty"`
	jwt.RegisteredClaims
}
