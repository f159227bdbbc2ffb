package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samsapp/sams-backend/internal/config"
	"github.com/samsapp/sams-backend/internal/database"
	"github.com/samsapp/sams-backend/internal/logger"
	"github.com/samsapp/sams-backend/internal/model"
	"github.com/samsapp/sams-backend/internal/repository"
	"github.com/samsapp/sams-backend/internal/service"
)

// Seeds a small demo dataset: two teachers, ten students, an active code per
// teacher, and two weeks of attendance history so the reports have something
// to chew on. Safe to re-run; duplicate users are skipped.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	codeRepo := repository.NewCodeRepository(pool)

	userService := service.NewUserService(userRepo, cfg, log)
	codeService := service.NewCodeService(userRepo, codeRepo, cfg, log)

	fmt.Println("=== Seeding Demo Data ===")

	// ─── Teachers ──────────────────────────────────────────────────────
	teacherNames := []string{"Sarah Mitchell", "James Okafor"}
	teacherIDs := make([]int, 0, len(teacherNames))
	for i, name := range teacherNames {
		email := fmt.Sprintf("teacher%d@school.test", i+1)
		dept := "Science"
		if i%2 == 1 {
			dept = "Mathematics"
		}
		user, err := userService.Register(ctx, &model.RegisterRequest{
			Name:       name,
			Email:      email,
			Password:   "password123",
			Role:       model.RoleTeacher,
			Department: &dept,
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				existing, lookupErr := userRepo.GetByEmailAndRole(ctx, email, model.RoleTeacher)
				if lookupErr != nil {
					log.Fatal().Err(lookupErr).Str("email", email).Msg("Failed to look up existing teacher")
				}
				teacherIDs = append(teacherIDs, existing.ID)
				fmt.Printf("Teacher %s already exists (ID %d)\n", email, existing.ID)
				continue
			}
			log.Fatal().Err(err).Str("email", email).Msg("Failed to seed teacher")
		}
		teacherIDs = append(teacherIDs, user.ID)
		fmt.Printf("Created teacher %s (ID %d)\n", email, user.ID)
	}

	// ─── Students ──────────────────────────────────────────────────────
	studentNames := []string{
		"Alice Johnson", "Ben Carter", "Chloe Nguyen", "Daniel Reyes", "Emma Walsh",
		"Felix Grant", "Grace Liu", "Hassan Ali", "Isla Moore", "Jack Thompson",
	}
	studentIDs := make([]int, 0, len(studentNames))
	for i, name := range studentNames {
		email := fmt.Sprintf("student%d@school.test", i+1)
		sid := fmt.Sprintf("S%05d", i+1)
		user, err := userService.Register(ctx, &model.RegisterRequest{
			Name:      name,
			Email:     email,
			Password:  "password123",
			Role:      model.RoleStudent,
			StudentID: &sid,
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateStudentID) {
				existing, lookupErr := userRepo.GetByEmailAndRole(ctx, email, model.RoleStudent)
				if lookupErr != nil {
					log.Fatal().Err(lookupErr).Str("email", email).Msg("Failed to look up existing student")
				}
				studentIDs = append(studentIDs, existing.ID)
				fmt.Printf("Student %s already exists (ID %d)\n", email, existing.ID)
				continue
			}
			log.Fatal().Err(err).Str("email", email).Msg("Failed to seed student")
		}
		studentIDs = append(studentIDs, user.ID)
		fmt.Printf("Created student %s (ID %d)\n", email, user.ID)
	}

	// ─── Active Codes ──────────────────────────────────────────────────
	subjects := []string{"Physics", "Algebra"}
	for i, teacherID := range teacherIDs {
		className := fmt.Sprintf("Room %d0%d", i+1, i+2)
		code, err := codeService.Create(ctx, &model.CreateCodeRequest{
			TeacherID: teacherID,
			Subject:   subjects[i%len(subjects)],
			ClassName: &className,
		}, nil)
		if err != nil {
			log.Fatal().Err(err).Int("teacher_id", teacherID).Msg("Failed to seed code")
		}
		fmt.Printf("Created code %s for %s\n", code.Code, code.Subject)
	}

	// ─── Attendance History ────────────────────────────────────────────
	// Backdated rows are inserted directly; the redemption endpoint only
	// accepts live codes. Students early in the list attend every day,
	// later ones attend less so the low-attendance report is non-empty.
	inserted := 0
	for day := 1; day <= 14; day++ {
		date := time.Now().UTC().AddDate(0, 0, -day)
		for i, studentID := range studentIDs {
			if day%(i+1) != 0 {
				continue
			}
			teacherIdx := i % len(teacherIDs)
			tag, err := pool.Exec(ctx, `
				INSERT INTO attendance (student_id, subject, teacher_id, attendance_code, status, date)
				VALUES ($1, $2, $3, $4, 'present', $5)
				ON CONFLICT DO NOTHING`,
				studentID, subjects[teacherIdx], teacherIDs[teacherIdx],
				fmt.Sprintf("SEED%02d", day), date,
			)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to seed attendance row")
			}
			inserted += int(tag.RowsAffected())
		}
	}

	fmt.Printf("\nDone. %d attendance rows inserted.\n", inserted)
}
