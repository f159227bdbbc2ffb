package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samsapp/sams-backend/internal/model"
	"github.com/samsapp/sams-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(users *fakeUserStore) *UserService {
	return NewUserService(users, testConfig(), zerolog.Nop())
}

func TestRegisterHashesPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestUserService(users)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Sam Lee",
		Email:    "sam@school.test",
		Password: "secret123",
		Role:     model.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
}

func TestRegisterDropsStudentIDForNonStudents(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestUserService(users)

	sid := "S-1001"
	teacher, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:      "Ms. Carter",
		Email:     "carter@school.test",
		Password:  "secret123",
		Role:      model.RoleTeacher,
		StudentID: &sid,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if teacher.StudentID != nil {
		t.Errorf("teacher has student_id %q, want none", *teacher.StudentID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestUserService(users)

	req := &model.RegisterRequest{Name: "Sam Lee", Email: "a@b.com", Password: "secret123", Role: model.RoleStudent}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegisterDuplicateStudentID(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestUserService(users)

	sid := "S-1001"
	first := &model.RegisterRequest{Name: "Sam Lee", Email: "sam@school.test", Password: "secret123", Role: model.RoleStudent, StudentID: &sid}
	if _, err := svc.Register(context.Background(), first); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	second := &model.RegisterRequest{Name: "Kim Park", Email: "kim@school.test", Password: "secret123", Role: model.RoleStudent, StudentID: &sid}
	_, err := svc.Register(context.Background(), second)
	if !errors.Is(err, repository.ErrDuplicateStudentID) {
		t.Fatalf("err = %v, want ErrDuplicateStudentID", err)
	}
}

func TestLoginSuccessStampsLastLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestUserService(users)

	if _, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name: "Sam Lee", Email: "sam@school.test", Password: "secret123", Role: model.RoleStudent,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.Login(context.Background(), &model.LoginRequest{
		Email: "sam@school.test", Password: "secret123", Role: model.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	stored, _ := users.GetByID(context.Background(), user.ID)
	if stored.LastLogin == nil {
		t.Error("last_login not stamped after login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestUserService(users)

	if _, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name: "Sam Lee", Email: "sam@school.test", Password: "secret123", Role: model.RoleStudent,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email: "sam@school.test", Password: "wrong", Role: model.RoleStudent,
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginWrongRole(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestUserService(users)

	if _, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name: "Sam Lee", Email: "sam@school.test", Password: "secret123", Role: model.RoleStudent,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email: "sam@school.test", Password: "secret123", Role: model.RoleTeacher,
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}
