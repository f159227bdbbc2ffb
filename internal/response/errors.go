package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidDate    ErrCode = "INVALID_DATE"

	// ─── Users ─────────────────────────────────────────────────────────
	ErrInvalidUser        ErrCode = "INVALID_USER"
	ErrInvalidTeacher     ErrCode = "INVALID_TEACHER"
	ErrInvalidStudent     ErrCode = "INVALID_STUDENT"
	ErrDuplicateEmail     ErrCode = "DUPLICATE_EMAIL"
	ErrDuplicateStudentID ErrCode = "DUPLICATE_STUDENT_ID"

	// ─── Attendance codes ──────────────────────────────────────────────
	ErrInvalidCode   ErrCode = "INVALID_CODE"
	ErrCodeExpired   ErrCode = "CODE_EXPIRED"
	ErrCodeExhausted ErrCode = "CODE_EXHAUSTED"
	ErrCodeValid     ErrCode = "CODE_VALID"

	// ─── Redemption ────────────────────────────────────────────────────
	ErrDuplicateAttendance ErrCode = "DUPLICATE_SUBMISSION"

	// ─── Reports ───────────────────────────────────────────────────────
	ErrInvalidReportType ErrCode = "INVALID_REPORT_TYPE"

	// ─── Transport ─────────────────────────────────────────────────────
	ErrMethodNotAllowed  ErrCode = "METHOD_NOT_ALLOWED"
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
// Storage failures stay generic so internals never leak to clients.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email, role or password."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidDate:
		return "Invalid date format."
	case ErrInvalidUser:
		return "Invalid user ID."
	case ErrInvalidTeacher:
		return "Invalid teacher ID."
	case ErrInvalidStudent:
		return "Invalid student ID."
	case ErrDuplicateEmail:
		return "Email already exists."
	case ErrDuplicateStudentID:
		return "Student ID already exists."
	case ErrInvalidCode:
		return "Invalid or inactive attendance code."
	case ErrCodeExpired:
		return "Attendance code has expired."
	case ErrCodeExhausted:
		return "Attendance code has reached maximum uses."
	case ErrCodeValid:
		return "Attendance code is valid."
	case ErrDuplicateAttendance:
		return "Attendance already marked for this session."
	case ErrInvalidReportType:
		return "Invalid report type."
	case ErrMethodNotAllowed:
		return "Method not allowed."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
