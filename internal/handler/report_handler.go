package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samsapp/sams-backend/internal/config"
	"github.com/samsapp/sams-backend/internal/response"
	"github.com/samsapp/sams-backend/internal/service"
)

// ReportHandler handles aggregate reporting endpoints.
type ReportHandler struct {
	reportService *service.ReportService
	cfg           *config.Config
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService, cfg *config.Config) *ReportHandler {
	return &ReportHandler{reportService: reportService, cfg: cfg}
}

// LowAttendance godoc
// GET /api/v1/reports/low-attendance?threshold=
// Ranks students below the attendance threshold, worst first. Students with
// no recorded classes are included.
func (h *ReportHandler) LowAttendance(c *gin.Context) {
	threshold := h.cfg.LowAttendanceThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		threshold = parsed
	}

	report, err := h.reportService.LowAttendance(c.Request.Context(), threshold)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"students":    report.Students,
		"total_count": report.TotalCount,
		"threshold":   report.Threshold,
	})
}

// Reports godoc
// GET /api/v1/reports?report_type=&user_id=&subject=&start_date=&end_date=
// Dispatches on report_type ∈ {attendance, users, low_attendance}.
func (h *ReportHandler) Reports(c *gin.Context) {
	reportType := c.DefaultQuery("report_type", service.ReportTypeAttendance)

	var studentID *int
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		studentID = &id
	}

	filter, ok := bindAttendanceFilter(c)
	if !ok {
		return
	}

	data, generatedAt, err := h.reportService.Generate(c.Request.Context(), reportType, studentID, filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReportType) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidReportType)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"report_type":  reportType,
		"data":         data,
		"generated_at": generatedAt.Format(time.RFC3339),
	})
}
