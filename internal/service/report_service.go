package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/samsapp/sams-backend/internal/config"
	"github.com/samsapp/sams-backend/internal/model"
)

// ErrInvalidReportType rejects unknown report_type values.
var ErrInvalidReportType = errors.New("invalid report type")

// Report types accepted by Generate.
const (
	ReportTypeAttendance    = "attendance"
	ReportTypeUsers         = "users"
	ReportTypeLowAttendance = "low_attendance"
)

// ReportService produces aggregate reports. The low-attendance report is
// cached in Redis for a short TTL since it scans the whole attendance table;
// everything else hits PostgreSQL directly.
type ReportService struct {
	reports ReportStore
	users   UserStore
	rdb     *redis.Client
	cfg     *config.Config
	log     zerolog.Logger
}

// NewReportService creates a new ReportService. rdb may be nil, which
// disables caching.
func NewReportService(reports ReportStore, users UserStore, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		users:   users,
		rdb:     rdb,
		cfg:     cfg,
		log:     log.With().Str("component", "report_service").Logger(),
	}
}

// LowAttendance returns students below the threshold, worst first. Students
// with zero recorded classes are included. Served from cache when a fresh
// copy exists.
func (s *ReportService) LowAttendance(ctx context.Context, threshold float64) (*model.LowAttendanceReport, error) {
	cacheKey := config.CacheKey.LowAttendanceReportKey(threshold)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var report model.LowAttendanceReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Report cache read failed")
		}
	}

	students, err := s.reports.LowAttendance(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("low attendance query: %w", err)
	}
	if students == nil {
		students = []model.LowAttendanceStudent{}
	}

	report := &model.LowAttendanceReport{
		Students:   students,
		TotalCount: len(students),
		Threshold:  threshold,
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, s.cfg.ReportCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Report cache write failed")
			}
		}
	}

	return report, nil
}

// Attendance builds the summary plus per-day breakdown for the filter.
func (s *ReportService) Attendance(ctx context.Context, studentID *int, filter model.AttendanceFilter) (*model.AttendanceReport, error) {
	summary, err := s.reports.AttendanceSummary(ctx, studentID, filter)
	if err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}

	daily, err := s.reports.DailyBreakdown(ctx, studentID, filter)
	if err != nil {
		return nil, fmt.Errorf("daily breakdown: %w", err)
	}
	if daily == nil {
		daily = []model.DailyAttendance{}
	}

	return &model.AttendanceReport{Summary: *summary, DailyBreakdown: daily}, nil
}

// Users summarizes the directory: totals by role and department plus the
// full user list. Cached like the low-attendance report.
func (s *ReportService) Users(ctx context.Context) (*model.UserReport, error) {
	cacheKey := config.CacheKey.UserReportKey()

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var report model.UserReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Report cache read failed")
		}
	}

	byRole, err := s.reports.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by role: %w", err)
	}
	byDepartment, err := s.reports.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by department: %w", err)
	}
	users, err := s.users.List(ctx, model.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}

	total := 0
	for _, rc := range byRole {
		total += rc.Count
	}

	report := &model.UserReport{
		TotalUsers:   total,
		ByRole:       byRole,
		ByDepartment: byDepartment,
		Users:        users,
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, s.cfg.ReportCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Report cache write failed")
			}
		}
	}

	return report, nil
}

// Generate dispatches on report_type and stamps the result.
func (s *ReportService) Generate(ctx context.Context, reportType string, studentID *int, filter model.AttendanceFilter) (interface{}, time.Time, error) {
	var (
		data interface{}
		err  error
	)

	switch reportType {
	case ReportTypeAttendance:
		data, err = s.Attendance(ctx, studentID, filter)
	case ReportTypeUsers:
		data, err = s.Users(ctx)
	case ReportTypeLowAttendance:
		data, err = s.LowAttendance(ctx, s.cfg.LowAttendanceThreshold)
	default:
		return nil, time.Time{}, ErrInvalidReportType
	}

	if err != nil {
		return nil, time.Time{}, err
	}
	return data, time.Now().UTC(), nil
}
