package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/samsapp/sams-backend/internal/codegen"
	"github.com/samsapp/sams-backend/internal/config"
	"github.com/samsapp/sams-backend/internal/model"
	"github.com/samsapp/sams-backend/internal/repository"
)

// Domain errors for the attendance code store.
var (
	ErrInvalidTeacher = errors.New("invalid teacher ID")
	ErrInvalidCode    = errors.New("invalid or inactive attendance code")
	ErrCodeExpired    = errors.New("attendance code has expired")
	ErrCodeExhausted  = errors.New("attendance code has reached maximum uses")
)

// ValidationResult is the outcome of a non-mutating code check.
type ValidationResult struct {
	Valid bool
	// Reason is nil when Valid; otherwise one of ErrInvalidCode,
	// ErrCodeExpired, ErrCodeExhausted.
	Reason error
	Code   *model.AttendanceCode
}

// CodeService owns the attendance-code lifecycle: creation with the
// retry-until-unique loop and validation with lazy expiry.
type CodeService struct {
	users UserDirectory
	codes CodeStore
	cfg   *config.Config
	log   zerolog.Logger
}

// NewCodeService creates a new CodeService.
func NewCodeService(users UserDirectory, codes CodeStore, cfg *config.Config, log zerolog.Logger) *CodeService {
	return &CodeService{
		users: users,
		codes: codes,
		cfg:   cfg,
		log:   log.With().Str("component", "code_service").Logger(),
	}
}

// Create validates the issuing teacher and persists a new code. The code
// value is regenerated until it does not collide with any active code: the
// generator's alphabet makes collisions rare, and the partial unique index
// catches the remaining create/create race, so the loop terminates in O(1)
// expected iterations.
func (s *CodeService) Create(ctx context.Context, req *model.CreateCodeRequest, expiresAt *time.Time) (*model.AttendanceCode, error) {
	teacher, err := s.users.GetByIDAndRole(ctx, req.TeacherID, model.RoleTeacher)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidTeacher
		}
		return nil, fmt.Errorf("resolve teacher: %w", err)
	}

	expiry := time.Now().Add(s.cfg.CodeTTL)
	if expiresAt != nil {
		expiry = *expiresAt
	}

	for {
		value, err := codegen.Generate(s.cfg.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}

		code := &model.AttendanceCode{
			Code:        value,
			TeacherID:   teacher.ID,
			TeacherName: teacher.Name,
			Subject:     req.Subject,
			ClassName:   req.ClassName,
			MaxUses:     req.MaxUses,
			ExpiresAt:   expiry,
		}

		err = s.codes.Create(ctx, code)
		if errors.Is(err, repository.ErrDuplicateCode) {
			s.log.Debug().Str("code", value).Msg("Code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, err
		}
		return code, nil
	}
}

// FindActive resolves an active code by value and applies lazy expiry: a
// code found past its expires_at is deactivated so later lookups
// short-circuit on the active filter. Returns ErrInvalidCode or
// ErrCodeExpired accordingly.
func (s *CodeService) FindActive(ctx context.Context, value string) (*model.AttendanceCode, error) {
	code, err := s.codes.GetActiveByCode(ctx, value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	if code.Expired(time.Now()) {
		if err := s.codes.Deactivate(ctx, code.ID); err != nil {
			s.log.Warn().Err(err).Int("code_id", code.ID).Msg("Failed to deactivate expired code")
		}
		return nil, ErrCodeExpired
	}

	return code, nil
}

// Validate checks a code without redeeming it. Exhausted codes are
// deactivated on discovery, like expired ones, so the active set stays
// clean.
func (s *CodeService) Validate(ctx context.Context, value string) (*ValidationResult, error) {
	code, err := s.FindActive(ctx, value)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrCodeExpired):
			return &ValidationResult{Valid: false, Reason: err}, nil
		default:
			return nil, err
		}
	}

	if code.Exhausted() {
		if err := s.codes.Deactivate(ctx, code.ID); err != nil {
			s.log.Warn().Err(err).Int("code_id", code.ID).Msg("Failed to deactivate exhausted code")
		}
		return &ValidationResult{Valid: false, Reason: ErrCodeExhausted}, nil
	}

	return &ValidationResult{Valid: true, Code: code}, nil
}
