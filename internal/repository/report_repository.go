package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samsapp/sams-backend/internal/model"
)

// ReportRepository runs read-only aggregate queries over attendance records
// and the user directory. It never mutates anything.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// LowAttendance lists students whose attendance percentage is below the
// threshold, worst first. The LEFT JOIN keeps students with zero recorded
// classes in the result (their percentage is NULL in SQL, surfaced as 0.0
// with TotalClasses 0), and NULLIF keeps the division from ever failing.
func (r *ReportRepository) LowAttendance(ctx context.Context, threshold float64) ([]model.LowAttendanceStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, u.student_id, u.department, u.phone,
		        COUNT(a.id) AS total_classes,
		        COALESCE(SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END), 0) AS present_classes,
		        ROUND(SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(a.id), 0), 2) AS attendance_percentage
		 FROM users u
		 LEFT JOIN attendance a ON a.student_id = u.id
		 WHERE u.role = 'student'
		 GROUP BY u.id, u.name, u.email, u.student_id, u.department, u.phone
		 HAVING ROUND(SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(a.id), 0), 2) < $1
		     OR COUNT(a.id) = 0
		 ORDER BY attendance_percentage ASC NULLS FIRST`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.LowAttendanceStudent
	for rows.Next() {
		var (
			s   model.LowAttendanceStudent
			pct *float64
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.StudentID, &s.Department, &s.Phone,
			&s.TotalClasses, &s.PresentClasses, &pct); err != nil {
			return nil, err
		}
		if pct != nil {
			s.Percentage = *pct
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// AttendanceSummary aggregates record counts and the attendance percentage
// for the given filter. An empty result set yields all zeros, not an error.
func (r *ReportRepository) AttendanceSummary(ctx context.Context, studentID *int, filter model.AttendanceFilter) (*model.AttendanceSummary, error) {
	query := `SELECT COUNT(*) AS total_classes,
	                 COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0) AS present_classes,
	                 COALESCE(SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END), 0) AS absent_classes,
	                 COALESCE(SUM(CASE WHEN status = 'late' THEN 1 ELSE 0 END), 0) AS late_classes,
	                 ROUND(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(*), 0), 2) AS attendance_percentage
	          FROM attendance WHERE 1=1`
	query, args := appendAttendanceFilters(query, nil, studentID, filter)

	var (
		summary model.AttendanceSummary
		pct     *float64
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&summary.TotalClasses, &summary.PresentClasses, &summary.AbsentClasses, &summary.LateClasses, &pct)
	if err != nil {
		return nil, err
	}
	if pct != nil {
		summary.Percentage = *pct
	}
	return &summary, nil
}

// DailyBreakdown returns per-day totals and percentages for the given
// filter, newest day first.
func (r *ReportRepository) DailyBreakdown(ctx context.Context, studentID *int, filter model.AttendanceFilter) ([]model.DailyAttendance, error) {
	query := `SELECT (date AT TIME ZONE 'UTC')::date AS attendance_date,
	                 COUNT(*) AS total_classes,
	                 COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0) AS present_classes,
	                 ROUND(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(*), 0), 2) AS daily_percentage
	          FROM attendance WHERE 1=1`
	query, args := appendAttendanceFilters(query, nil, studentID, filter)
	query += ` GROUP BY (date AT TIME ZONE 'UTC')::date ORDER BY attendance_date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []model.DailyAttendance
	for rows.Next() {
		var (
			d   model.DailyAttendance
			pct *float64
		)
		if err := rows.Scan(&d.Date, &d.TotalClasses, &d.PresentClasses, &pct); err != nil {
			return nil, err
		}
		if pct != nil {
			d.Percentage = *pct
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// CountByRole tallies users per role.
func (r *ReportRepository) CountByRole(ctx context.Context) ([]model.RoleCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role, COUNT(*) FROM users GROUP BY role ORDER BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.RoleCount
	for rows.Next() {
		var rc model.RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, rc)
	}
	return counts, rows.Err()
}

// CountByDepartment tallies users per department, skipping users without one.
func (r *ReportRepository) CountByDepartment(ctx context.Context) ([]model.DepartmentCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT department, COUNT(*) FROM users WHERE department IS NOT NULL GROUP BY department ORDER BY department`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.DepartmentCount
	for rows.Next() {
		var dc model.DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

// appendAttendanceFilters extends a WHERE 1=1 query with the optional
// student and filter clauses shared by the report queries.
func appendAttendanceFilters(query string, args []interface{}, studentID *int, filter model.AttendanceFilter) (string, []interface{}) {
	if studentID != nil {
		args = append(args, *studentID)
		query += ` AND student_id = $` + formatInt(len(args))
	}
	if filter.Subject != "" && filter.Subject != "All" {
		args = append(args, filter.Subject)
		query += ` AND subject = $` + formatInt(len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += ` AND (date AT TIME ZONE 'UTC')::date >= ($` + formatInt(len(args)) + ` AT TIME ZONE 'UTC')::date`
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += ` AND (date AT TIME ZONE 'UTC')::date <= ($` + formatInt(len(args)) + ` AT TIME ZONE 'UTC')::date`
	}
	return query, args
}
