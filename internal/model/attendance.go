package model

import "time"

// AttendanceStatus is the recorded outcome for one student and one session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

// AttendanceRecord is the append-only fact produced by a successful
// redemption. Names and subject are snapshots taken at redemption time so
// reports stay stable if users are renamed later.
type AttendanceRecord struct {
	ID             int              `json:"id"`
	StudentID      int              `json:"student_id"`
	StudentName    string           `json:"student_name"`
	Subject        string           `json:"subject"`
	TeacherID      int              `json:"teacher_id"`
	TeacherName    string           `json:"teacher_name"`
	AttendanceCode string           `json:"attendance_code"`
	Status         AttendanceStatus `json:"status"`
	Date           time.Time        `json:"date"`
	CreatedAt      time.Time        `json:"created_at"`
}

// RedeemRequest is the payload for marking attendance with a code.
type RedeemRequest struct {
	StudentID      int    `json:"student_id" binding:"required,min=1"`
	AttendanceCode string `json:"attendance_code" binding:"required,min=1,max=20"`
}

// AttendanceFilter narrows attendance queries. Subject "All" (or empty)
// matches every subject; StartDate/EndDate are date-granular bounds.
type AttendanceFilter struct {
	Subject   string
	StartDate *time.Time
	EndDate   *time.Time
}
