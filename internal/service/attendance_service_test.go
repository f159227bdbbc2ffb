package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/samsapp/sams-backend/internal/model"
)

type redemptionFixture struct {
	users      *fakeUserStore
	codes      *fakeCodeStore
	attendance *fakeAttendanceStore
	codeSvc    *CodeService
	svc        *AttendanceService
}

func newRedemptionFixture() *redemptionFixture {
	users := newFakeUserStore()
	codes := newFakeCodeStore()
	attendance := newFakeAttendanceStore(codes)
	codeSvc := newTestCodeService(users, codes)
	return &redemptionFixture{
		users:      users,
		codes:      codes,
		attendance: attendance,
		codeSvc:    codeSvc,
		svc:        NewAttendanceService(users, codeSvc, attendance, zerolog.Nop()),
	}
}

func (f *redemptionFixture) createCode(t *testing.T, maxUses *int, expiresAt *time.Time) *model.AttendanceCode {
	t.Helper()
	teacher := addTeacher(f.users)
	code, err := f.codeSvc.Create(context.Background(), &model.CreateCodeRequest{
		TeacherID: teacher.ID,
		Subject:   "Physics",
		MaxUses:   maxUses,
	}, expiresAt)
	if err != nil {
		t.Fatalf("create code: %v", err)
	}
	return code
}

func TestRedeemRejectsUnknownStudentBeforeCode(t *testing.T) {
	f := newRedemptionFixture()

	// Both the student and the code are bogus; the student gate decides.
	_, err := f.svc.Redeem(context.Background(), 404, "NOPE42")
	if !errors.Is(err, ErrInvalidStudent) {
		t.Fatalf("err = %v, want ErrInvalidStudent", err)
	}
}

func TestRedeemRejectsTeacherAsStudent(t *testing.T) {
	f := newRedemptionFixture()
	code := f.createCode(t, nil, nil)
	teacher := addTeacher(f.users)

	_, err := f.svc.Redeem(context.Background(), teacher.ID, code.Code)
	if !errors.Is(err, ErrInvalidStudent) {
		t.Fatalf("err = %v, want ErrInvalidStudent", err)
	}
}

func TestRedeemRejectsUnknownCode(t *testing.T) {
	f := newRedemptionFixture()
	student := addStudent(f.users, "sam@school.test")

	_, err := f.svc.Redeem(context.Background(), student.ID, "NOPE42")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
}

func TestRedeemRejectsExpiredCodeAndDeactivates(t *testing.T) {
	f := newRedemptionFixture()
	expiry := time.Now().Add(-time.Minute)
	code := f.createCode(t, nil, &expiry)
	student := addStudent(f.users, "sam@school.test")

	_, err := f.svc.Redeem(context.Background(), student.ID, code.Code)
	if !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("err = %v, want ErrCodeExpired", err)
	}

	// Subsequent attempts short-circuit at the code gate.
	_, err = f.svc.Redeem(context.Background(), student.ID, code.Code)
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("second err = %v, want ErrInvalidCode", err)
	}
}

func TestRedeemSuccessIncrementsUsageOnce(t *testing.T) {
	f := newRedemptionFixture()
	code := f.createCode(t, nil, nil)
	student := addStudent(f.users, "sam@school.test")

	record, err := f.svc.Redeem(context.Background(), student.ID, code.Code)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}

	if record.Status != model.StatusPresent {
		t.Errorf("status = %q, want present", record.Status)
	}
	if record.StudentName != student.Name || record.TeacherName != code.TeacherName || record.Subject != code.Subject {
		t.Errorf("record snapshots not copied: %+v", record)
	}

	stored := f.codes.get(code.ID)
	if stored.CurrentUses != 1 {
		t.Errorf("current_uses = %d, want 1", stored.CurrentUses)
	}
	if !stored.IsActive {
		t.Error("uncapped code deactivated after one use")
	}
}

func TestRedeemDuplicateSameDay(t *testing.T) {
	f := newRedemptionFixture()
	code := f.createCode(t, nil, nil)
	student := addStudent(f.users, "sam@school.test")

	if _, err := f.svc.Redeem(context.Background(), student.ID, code.Code); err != nil {
		t.Fatalf("first Redeem: %v", err)
	}

	_, err := f.svc.Redeem(context.Background(), student.ID, code.Code)
	if !errors.Is(err, ErrDuplicateAttendance) {
		t.Fatalf("err = %v, want ErrDuplicateAttendance", err)
	}

	stored := f.codes.get(code.ID)
	if stored.CurrentUses != 1 {
		t.Errorf("current_uses = %d after duplicate attempt, want 1", stored.CurrentUses)
	}
}

func TestRedeemCapReachedDeactivates(t *testing.T) {
	f := newRedemptionFixture()
	one := 1
	code := f.createCode(t, &one, nil)
	first := addStudent(f.users, "first@school.test")
	second := addStudent(f.users, "second@school.test")

	if _, err := f.svc.Redeem(context.Background(), first.ID, code.Code); err != nil {
		t.Fatalf("first Redeem: %v", err)
	}

	stored := f.codes.get(code.ID)
	if stored.CurrentUses != 1 || stored.IsActive {
		t.Fatalf("code state uses=%d active=%v, want 1/false", stored.CurrentUses, stored.IsActive)
	}

	// The code is inactive now, so the second student fails the code gate.
	_, err := f.svc.Redeem(context.Background(), second.ID, code.Code)
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
}

func TestRedeemConcurrentNeverOvershootsCap(t *testing.T) {
	f := newRedemptionFixture()
	capacity := 5
	code := f.createCode(t, &capacity, nil)

	const attempts = 20
	students := make([]*model.User, attempts)
	for i := range students {
		students[i] = addStudent(f.users, "s"+string(rune('a'+i))+"@school.test")
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Redeem(context.Background(), students[i].ID, code.Code)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCodeExhausted), errors.Is(err, ErrInvalidCode):
			// Rejected at the cap gate, or after the cap deactivated the code.
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != capacity {
		t.Fatalf("%d redemptions succeeded, want exactly %d", succeeded, capacity)
	}
	stored := f.codes.get(code.ID)
	if stored.CurrentUses != capacity {
		t.Errorf("current_uses = %d, want %d", stored.CurrentUses, capacity)
	}
	if stored.IsActive {
		t.Error("code still active after reaching the cap")
	}
}

func TestListScopesByRole(t *testing.T) {
	f := newRedemptionFixture()
	code := f.createCode(t, nil, nil)
	student := addStudent(f.users, "sam@school.test")
	other := addStudent(f.users, "other@school.test")

	if _, err := f.svc.Redeem(context.Background(), student.ID, code.Code); err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if _, err := f.svc.Redeem(context.Background(), other.ID, code.Code); err != nil {
		t.Fatalf("Redeem: %v", err)
	}

	records, err := f.svc.List(context.Background(), student.ID, model.AttendanceFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].StudentID != student.ID {
		t.Fatalf("student sees %d records, want only their own", len(records))
	}

	teacherRecords, err := f.svc.List(context.Background(), code.TeacherID, model.AttendanceFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(teacherRecords) != 2 {
		t.Fatalf("teacher sees %d records, want 2", len(teacherRecords))
	}

	admin := f.users.add(model.User{Name: "Admin", Email: "admin@school.test", Role: model.RoleAdmin})
	all, err := f.svc.List(context.Background(), admin.ID, model.AttendanceFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d records, want all 2", len(all))
	}
}

func TestListRejectsUnknownUser(t *testing.T) {
	f := newRedemptionFixture()
	_, err := f.svc.List(context.Background(), 404, model.AttendanceFilter{})
	if !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("err = %v, want ErrInvalidUser", err)
	}
}
