package model

import "time"

// AttendanceCode is a short-lived token a teacher issues for one class
// session. Students redeem it to be marked present.
//
// Invariants enforced by the store and redemption engine:
//   - Code is unique among rows where IsActive is true.
//   - CurrentUses only grows and never exceeds MaxUses when MaxUses is set.
//   - IsActive flips true→false exactly once (expiry or cap) and never back.
//
// MaxUses is nil for unlimited; a stored zero means the cap is already
// reached.
type AttendanceCode struct {
	ID          int       `json:"id"`
	Code        string    `json:"code"`
	TeacherID   int       `json:"teacher_id"`
	TeacherName string    `json:"teacher_name"`
	Subject     string    `json:"subject"`
	ClassName   *string   `json:"class_name"`
	MaxUses     *int      `json:"max_uses"`
	CurrentUses int       `json:"current_uses"`
	ExpiresAt   time.Time `json:"expires_at"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expired reports whether the code's validity window has passed at now.
func (c *AttendanceCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Exhausted reports whether the usage cap has been reached.
// Codes without a cap are never exhausted.
func (c *AttendanceCode) Exhausted() bool {
	return c.MaxUses != nil && c.CurrentUses >= *c.MaxUses
}

// CreateCodeRequest is the payload for generating a new attendance code.
// ExpiresAt accepts RFC 3339 or "2006-01-02 15:04:05"; when omitted the
// configured default TTL is applied.
type CreateCodeRequest struct {
	TeacherID int     `json:"teacher_id" binding:"required,min=1"`
	Subject   string  `json:"subject" binding:"required,min=1,max=100"`
	ClassName *string `json:"class_name" binding:"omitempty,max=100"`
	MaxUses   *int    `json:"max_uses" binding:"omitempty,min=1"`
	ExpiresAt string  `json:"expires_at" binding:"omitempty"`
}

// ValidateCodeRequest is the payload for checking a code without redeeming it.
type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required,min=1,max=20"`
}
