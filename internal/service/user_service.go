package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/samsapp/sams-backend/internal/config"
	"github.com/samsapp/sams-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for the user directory.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService handles registration, login and directory queries.
type UserService struct {
	users UserStore
	cfg   *config.Config
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, cfg *config.Config, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		cfg:   cfg,
		log:   log.With().Str("component", "user_service").Logger(),
	}
}

// Register creates a user account with a bcrypt-hashed password.
// Duplicate email or student ID surfaces as the repository's sentinel.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Department:   req.Department,
		Phone:        req.Phone,
	}
	// Only students carry a student ID; the column has a unique constraint
	// and must stay NULL for other roles.
	if req.Role == model.RoleStudent {
		user.StudentID = req.StudentID
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login checks an (email, role, password) triple and stamps last_login on
// success. Unknown users and bad passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.users.GetByEmailAndRole(ctx, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the stamp is best-effort.
		s.log.Warn().Err(err).Int("user_id", user.ID).Msg("Failed to update last_login")
	}

	return user, nil
}

// GetByID resolves any user by ID.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List retrieves users with optional role and department filters.
func (s *UserService) List(ctx context.Context, filter model.UserFilter) ([]model.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}
