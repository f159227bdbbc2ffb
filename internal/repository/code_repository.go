package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samsapp/sams-backend/internal/model"
)

// ErrDuplicateCode signals a collision with another active code. The caller
// regenerates and retries.
var ErrDuplicateCode = errors.New("an active code with this value already exists")

const codeColumns = `id, code, teacher_id, teacher_name, subject, class_name,
	       max_uses, current_uses, expires_at, is_active, created_at`

// CodeRepository handles attendance code persistence.
type CodeRepository struct {
	pool *pgxpool.Pool
}

// NewCodeRepository creates a new CodeRepository.
func NewCodeRepository(pool *pgxpool.Pool) *CodeRepository {
	return &CodeRepository{pool: pool}
}

// Create inserts a new code with current_uses=0 and is_active=true, filling
// in the generated ID and timestamp. The partial unique index on active
// codes turns a creation race into ErrDuplicateCode instead of letting two
// identical active codes exist.
func (r *CodeRepository) Create(ctx context.Context, c *model.AttendanceCode) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attendance_codes (code, teacher_id, teacher_name, subject, class_name, max_uses, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, current_uses, is_active, created_at`,
		c.Code, c.TeacherID, c.TeacherName, c.Subject, c.ClassName, c.MaxUses, c.ExpiresAt,
	).Scan(&c.ID, &c.CurrentUses, &c.IsActive, &c.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

// GetActiveByCode retrieves an active code by its value. Expiry is not
// evaluated here; callers compare ExpiresAt themselves and deactivate
// lazily.
func (r *CodeRepository) GetActiveByCode(ctx context.Context, code string) (*model.AttendanceCode, error) {
	c := &model.AttendanceCode{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+codeColumns+`
		 FROM attendance_codes WHERE code = $1 AND is_active = TRUE`, code,
	).Scan(&c.ID, &c.Code, &c.TeacherID, &c.TeacherName, &c.Subject, &c.ClassName,
		&c.MaxUses, &c.CurrentUses, &c.ExpiresAt, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// IncrementUsage bumps current_uses by one and deactivates the code in the
// same statement when the cap is reached. The one-way latch on is_active
// holds because the expression never sets it back to TRUE.
func (r *CodeRepository) IncrementUsage(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE attendance_codes
		 SET current_uses = current_uses + 1,
		     is_active = CASE
		         WHEN max_uses IS NOT NULL AND current_uses + 1 >= max_uses THEN FALSE
		         ELSE is_active
		     END
		 WHERE id = $1`, id)
	return err
}

// Deactivate retires a code. Idempotent.
func (r *CodeRepository) Deactivate(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE attendance_codes SET is_active = FALSE WHERE id = $1`, id)
	return err
}

// DeactivateExpired retires every active code whose expiry has passed and
// returns how many were affected. Used by the optional sweep worker.
func (r *CodeRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE attendance_codes SET is_active = FALSE WHERE is_active = TRUE AND expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
