package service

import (
	"context"

	"github.com/samsapp/sams-backend/internal/model"
)

// The services depend on narrow store interfaces rather than the concrete
// repository types so the business rules (gate ordering, lazy expiry, usage
// caps) can be tested against in-memory fakes. The pgx repositories in
// internal/repository satisfy these interfaces.

// UserDirectory resolves identities. The code store and redemption engine
// use it for validation only.
type UserDirectory interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByIDAndRole(ctx context.Context, id int, role model.Role) (*model.User, error)
}

// UserStore is the full user directory surface used by registration, login
// and listing.
type UserStore interface {
	UserDirectory
	GetByEmailAndRole(ctx context.Context, email string, role model.Role) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdateLastLogin(ctx context.Context, id int) error
	List(ctx context.Context, filter model.UserFilter) ([]model.User, error)
}

// CodeStore persists attendance codes and their usage state.
type CodeStore interface {
	Create(ctx context.Context, c *model.AttendanceCode) error
	GetActiveByCode(ctx context.Context, code string) (*model.AttendanceCode, error)
	IncrementUsage(ctx context.Context, id int) error
	Deactivate(ctx context.Context, id int) error
}

// AttendanceStore persists attendance records. Redeem is the atomic commit
// unit of the redemption engine.
type AttendanceStore interface {
	ExistsForDay(ctx context.Context, studentID int, code string) (bool, error)
	Redeem(ctx context.Context, rec *model.AttendanceRecord, codeID int) error
	ListForUser(ctx context.Context, userID int, role model.Role, filter model.AttendanceFilter) ([]model.AttendanceRecord, error)
}

// ReportStore runs the read-only aggregate queries behind the reporting
// endpoints.
type ReportStore interface {
	LowAttendance(ctx context.Context, threshold float64) ([]model.LowAttendanceStudent, error)
	AttendanceSummary(ctx context.Context, studentID *int, filter model.AttendanceFilter) (*model.AttendanceSummary, error)
	DailyBreakdown(ctx context.Context, studentID *int, filter model.AttendanceFilter) ([]model.DailyAttendance, error)
	CountByRole(ctx context.Context) ([]model.RoleCount, error)
	CountByDepartment(ctx context.Context) ([]model.DepartmentCount, error)
}
