package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samsapp/sams-backend/internal/model"
)

type fakeReportStore struct {
	lowAttendance []model.LowAttendanceStudent
	summary       model.AttendanceSummary
	daily         []model.DailyAttendance
	byRole        []model.RoleCount
	byDepartment  []model.DepartmentCount
}

func (f *fakeReportStore) LowAttendance(context.Context, float64) ([]model.LowAttendanceStudent, error) {
	return f.lowAttendance, nil
}

func (f *fakeReportStore) AttendanceSummary(context.Context, *int, model.AttendanceFilter) (*model.AttendanceSummary, error) {
	s := f.summary
	return &s, nil
}

func (f *fakeReportStore) DailyBreakdown(context.Context, *int, model.AttendanceFilter) ([]model.DailyAttendance, error) {
	return f.daily, nil
}

func (f *fakeReportStore) CountByRole(context.Context) ([]model.RoleCount, error) {
	return f.byRole, nil
}

func (f *fakeReportStore) CountByDepartment(context.Context) ([]model.DepartmentCount, error) {
	return f.byDepartment, nil
}

func newTestReportService(store *fakeReportStore, users *fakeUserStore) *ReportService {
	return NewReportService(store, users, nil, testConfig(), zerolog.Nop())
}

func TestLowAttendanceIncludesZeroClassStudents(t *testing.T) {
	store := &fakeReportStore{
		lowAttendance: []model.LowAttendanceStudent{
			{ID: 1, Name: "No Classes", TotalClasses: 0, PresentClasses: 0, Percentage: 0.0},
			{ID: 2, Name: "Low", TotalClasses: 10, PresentClasses: 5, Percentage: 50.0},
		},
	}
	svc := newTestReportService(store, newFakeUserStore())

	report, err := svc.LowAttendance(context.Background(), 75.0)
	if err != nil {
		t.Fatalf("LowAttendance: %v", err)
	}

	if report.TotalCount != 2 {
		t.Fatalf("total_count = %d, want 2", report.TotalCount)
	}
	if report.Threshold != 75.0 {
		t.Errorf("threshold = %v, want 75.0", report.Threshold)
	}
	if report.Students[0].TotalClasses != 0 || report.Students[0].Percentage != 0.0 {
		t.Errorf("zero-class student surfaced as %+v", report.Students[0])
	}
}

func TestLowAttendanceEmptyResult(t *testing.T) {
	svc := newTestReportService(&fakeReportStore{}, newFakeUserStore())

	report, err := svc.LowAttendance(context.Background(), 75.0)
	if err != nil {
		t.Fatalf("LowAttendance: %v", err)
	}
	if report.Students == nil {
		t.Error("students should be an empty slice, not nil")
	}
	if report.TotalCount != 0 {
		t.Errorf("total_count = %d, want 0", report.TotalCount)
	}
}

func TestGenerateDispatch(t *testing.T) {
	store := &fakeReportStore{
		summary: model.AttendanceSummary{TotalClasses: 4, PresentClasses: 3, Percentage: 75.0},
		byRole:  []model.RoleCount{{Role: model.RoleStudent, Count: 3}, {Role: model.RoleTeacher, Count: 1}},
	}
	svc := newTestReportService(store, newFakeUserStore())

	data, generatedAt, err := svc.Generate(context.Background(), ReportTypeAttendance, nil, model.AttendanceFilter{})
	if err != nil {
		t.Fatalf("Generate(attendance): %v", err)
	}
	report, ok := data.(*model.AttendanceReport)
	if !ok {
		t.Fatalf("Generate(attendance) returned %T", data)
	}
	if report.Summary.Percentage != 75.0 {
		t.Errorf("percentage = %v, want 75.0", report.Summary.Percentage)
	}
	if generatedAt.IsZero() {
		t.Error("generated_at not stamped")
	}

	data, _, err = svc.Generate(context.Background(), ReportTypeUsers, nil, model.AttendanceFilter{})
	if err != nil {
		t.Fatalf("Generate(users): %v", err)
	}
	userReport, ok := data.(*model.UserReport)
	if !ok {
		t.Fatalf("Generate(users) returned %T", data)
	}
	if userReport.TotalUsers != 4 {
		t.Errorf("total_users = %d, want 4", userReport.TotalUsers)
	}
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	svc := newTestReportService(&fakeReportStore{}, newFakeUserStore())

	_, _, err := svc.Generate(context.Background(), "bogus", nil, model.AttendanceFilter{})
	if !errors.Is(err, ErrInvalidReportType) {
		t.Fatalf("err = %v, want ErrInvalidReportType", err)
	}
}
