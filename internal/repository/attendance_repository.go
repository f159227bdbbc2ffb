package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samsapp/sams-backend/internal/model"
)

// Errors surfaced from the redemption transaction when a concurrent
// redemption changed the code's state between the engine's pre-checks and
// the commit.
var (
	ErrCodeInactive        = errors.New("attendance code is no longer active")
	ErrCodeExhausted       = errors.New("attendance code has reached maximum uses")
	ErrDuplicateAttendance = errors.New("attendance already marked for this session")
)

// AttendanceRepository handles attendance record persistence including the
// atomic redemption commit.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// ExistsForDay reports whether the student already redeemed this code on the
// current UTC calendar day.
func (r *AttendanceRepository) ExistsForDay(ctx context.Context, studentID int, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM attendance
		     WHERE student_id = $1
		       AND attendance_code = $2
		       AND (date AT TIME ZONE 'UTC')::date = (NOW() AT TIME ZONE 'UTC')::date
		 )`, studentID, code,
	).Scan(&exists)
	return exists, err
}

// Redeem commits a redemption as one atomic unit: it inserts the attendance
// record and advances the code's usage counter, deactivating the code when
// the cap is reached. The code row is locked FOR UPDATE so two concurrent
// redemptions serialize; cap and duplicate are re-checked under the lock.
// Either everything is applied or nothing is.
func (r *AttendanceRepository) Redeem(ctx context.Context, rec *model.AttendanceRecord, codeID int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		maxUses     *int
		currentUses int
		isActive    bool
	)
	err = tx.QueryRow(ctx,
		`SELECT max_uses, current_uses, is_active
		 FROM attendance_codes WHERE id = $1 FOR UPDATE`, codeID,
	).Scan(&maxUses, &currentUses, &isActive)
	if err != nil {
		return fmt.Errorf("lock code row: %w", err)
	}

	if !isActive {
		return ErrCodeInactive
	}
	if maxUses != nil && currentUses >= *maxUses {
		return ErrCodeExhausted
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO attendance (student_id, student_name, subject, teacher_id, teacher_name, attendance_code, status, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 RETURNING id, date, created_at`,
		rec.StudentID, rec.StudentName, rec.Subject, rec.TeacherID, rec.TeacherName, rec.AttendanceCode, rec.Status,
	).Scan(&rec.ID, &rec.Date, &rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAttendance
		}
		return fmt.Errorf("insert record: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE attendance_codes
		 SET current_uses = current_uses + 1,
		     is_active = CASE
		         WHEN max_uses IS NOT NULL AND current_uses + 1 >= max_uses THEN FALSE
		         ELSE is_active
		     END
		 WHERE id = $1`, codeID)
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}

	return tx.Commit(ctx)
}

// ListForUser retrieves attendance records visible to a user. Students see
// their own records, teachers the ones they taught, and any other role sees
// everything. Subject "All" disables the subject filter.
func (r *AttendanceRepository) ListForUser(ctx context.Context, userID int, role model.Role, filter model.AttendanceFilter) ([]model.AttendanceRecord, error) {
	query := `SELECT id, student_id, student_name, subject, teacher_id, teacher_name, attendance_code, status, date, created_at
	          FROM attendance WHERE 1=1`
	var args []interface{}

	switch role {
	case model.RoleStudent:
		args = append(args, userID)
		query += ` AND student_id = $` + formatInt(len(args))
	case model.RoleTeacher:
		args = append(args, userID)
		query += ` AND teacher_id = $` + formatInt(len(args))
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

	query += ` ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.StudentName, &rec.Subject, &rec.TeacherID,
			&rec.TeacherName, &rec.AttendanceCode, &rec.Status, &rec.Date, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
