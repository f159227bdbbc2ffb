package model

import "time"

// LowAttendanceStudent is one row of the low-attendance report. Students with
// zero recorded classes are included with TotalClasses 0 and Percentage 0.0.
type LowAttendanceStudent struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	StudentID      *string `json:"student_id"`
	Department     *string `json:"department"`
	Phone          *string `json:"phone"`
	TotalClasses   int     `json:"total_classes"`
	PresentClasses int     `json:"present_classes"`
	// Percentage is present/total*100 rounded to 2 decimals; 0.0 when no
	// classes are recorded.
	Percentage float64 `json:"attendance_percentage"`
}

// AttendanceSummary aggregates attendance records matching a report filter.
type AttendanceSummary struct {
	TotalClasses   int     `json:"total_classes"`
	PresentClasses int     `json:"present_classes"`
	AbsentClasses  int     `json:"absent_classes"`
	LateClasses    int     `json:"late_classes"`
	Percentage     float64 `json:"attendance_percentage"`
}

// DailyAttendance is a per-day breakdown row in the attendance report.
type DailyAttendance struct {
	Date           time.Time `json:"attendance_date"`
	TotalClasses   int       `json:"total_classes"`
	PresentClasses int       `json:"present_classes"`
	Percentage     float64   `json:"daily_percentage"`
}

// AttendanceReport pairs the summary with its daily breakdown.
type AttendanceReport struct {
	Summary        AttendanceSummary `json:"summary"`
	DailyBreakdown []DailyAttendance `json:"daily_breakdown"`
}

// RoleCount is the number of users holding one role.
type RoleCount struct {
	Role  Role `json:"role"`
	Count int  `json:"count"`
}

// DepartmentCount is the number of users in one department.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// UserReport summarizes the user directory.
type UserReport struct {
	TotalUsers   int               `json:"total_users"`
	ByRole       []RoleCount       `json:"by_role"`
	ByDepartment []DepartmentCount `json:"by_department"`
	Users        []User            `json:"users"`
}

// LowAttendanceReport wraps the ranked below-threshold list.
type LowAttendanceReport struct {
	Students   []LowAttendanceStudent `json:"students"`
	TotalCount int                    `json:"total_count"`
	Threshold  float64                `json:"threshold"`
}

// UserFilter narrows directory listings.
type UserFilter struct {
	Role       Role
	Department string
}
