package model

import "time"

// Role classifies a user account.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTeacher   Role = "teacher"
	RoleAdmin     Role = "admin"
	RoleCounselor Role = "counselor"
)

// User represents any account in the directory: students, teachers,
// admins and counselors share one table distinguished by Role.
type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	StudentID    *string    `json:"student_id"`
	Department   *string    `json:"department"`
	Phone        *string    `json:"phone"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// RegisterRequest is the payload for creating a new user account.
type RegisterRequest struct {
	Name       string  `json:"name" binding:"required,min=2,max=100"`
	Email      string  `json:"email" binding:"required,email,max=255"`
	Password   string  `json:"password" binding:"required,min=6,max=128"`
	Role       Role    `json:"role" binding:"required,oneof=student teacher admin counselor"`
	StudentID  *string `json:"student_id" binding:"omitempty,min=1,max=50"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,max=30"`
}

// LoginRequest is the payload for authenticating a user. The role is part of
// the credentials: the same email may not log in under a different role.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=1,max=128"`
	Role     Role   `json:"role" binding:"required,oneof=student teacher admin counselor"`
}
