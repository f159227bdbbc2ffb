package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/samsapp/sams-backend/internal/model"
	"github.com/samsapp/sams-backend/internal/repository"
)

// Domain errors for redemption.
var (
	ErrInvalidStudent      = errors.New("invalid student ID")
	ErrDuplicateAttendance = errors.New("attendance already marked for this session")
	ErrInvalidUser         = errors.New("invalid user ID")
)

// AttendanceService is the redemption engine. A redemption attempt passes
// through ordered hard gates (student, code, expiry, cap, duplicate) and
// any failed gate short-circuits with its specific error. The final commit
// is delegated to the store, which re-checks cap and duplicate inside the
// transaction so concurrent redemptions can never overshoot the cap.
type AttendanceService struct {
	users      UserDirectory
	codes      *CodeService
	attendance AttendanceStore
	log        zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(users UserDirectory, codes *CodeService, attendance AttendanceStore, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		users:      users,
		codes:      codes,
		attendance: attendance,
		log:        log.With().Str("component", "attendance_service").Logger(),
	}
}

// Redeem marks a student present using an attendance code.
//
// Gate order matters: the student is resolved before the code so errors are
// specific, and all cheap existence checks run before the atomic write.
func (s *AttendanceService) Redeem(ctx context.Context, studentID int, codeValue string) (*model.AttendanceRecord, error) {
	// 1. Student must exist with role=student.
	student, err := s.users.GetByIDAndRole(ctx, studentID, model.RoleStudent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStudent
		}
		return nil, fmt.Errorf("resolve student: %w", err)
	}

	// 2–3. Code must be active and not expired; expiry discovery
	// deactivates the code (lazy expiry).
	code, err := s.codes.FindActive(ctx, codeValue)
	if err != nil {
		return nil, err
	}

	// 4. Usage cap.
	if code.Exhausted() {
		return nil, ErrCodeExhausted
	}

	// 5. One redemption per code per calendar day.
	exists, err := s.attendance.ExistsForDay(ctx, student.ID, code.Code)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return nil, ErrDuplicateAttendance
	}

	// 6. Commit: record insert + usage increment as one atomic unit.
	// The store re-checks cap and duplicate under lock; losing a race
	// surfaces the same specific errors as the gates above.
	record := &model.AttendanceRecord{
		StudentID:      student.ID,
		StudentName:    student.Name,
		Subject:        code.Subject,
		TeacherID:      code.TeacherID,
		TeacherName:    code.TeacherName,
		AttendanceCode: code.Code,
		Status:         model.StatusPresent,
	}

	if err := s.attendance.Redeem(ctx, record, code.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCodeInactive):
			return nil, ErrInvalidCode
		case errors.Is(err, repository.ErrCodeExhausted):
			return nil, ErrCodeExhausted
		case errors.Is(err, repository.ErrDuplicateAttendance):
			return nil, ErrDuplicateAttendance
		}
		return nil, fmt.Errorf("commit redemption: %w", err)
	}

	s.log.Info().
		Int("student_id", student.ID).
		Str("code", code.Code).
		Str("subject", code.Subject).
		Msg("Attendance marked")

	return record, nil
}

// List retrieves attendance records scoped by the requesting user's role:
// students see their own, teachers what they taught, admins and counselors
// everything.
func (s *AttendanceService) List(ctx context.Context, userID int, filter model.AttendanceFilter) ([]model.AttendanceRecord, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidUser
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	records, err := s.attendance.ListForUser(ctx, user.ID, user.Role, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	return records, nil
}
