package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samsapp/sams-backend/internal/middleware"
	"github.com/samsapp/sams-backend/internal/model"
	"github.com/samsapp/sams-backend/internal/response"
	"github.com/samsapp/sams-backend/internal/service"
	"github.com/samsapp/sams-backend/internal/validator"
)

// AttendanceHandler handles code redemption and attendance queries.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// Redeem godoc
// POST /api/v1/attendance
// Marks a student present using an attendance code.
func (h *AttendanceHandler) Redeem(c *gin.Context) {
	var req model.RedeemRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.attendanceService.Redeem(c.Request.Context(), req.StudentID, req.AttendanceCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStudent):
			middleware.CountRedemption("invalid_student")
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidStudent)
		case errors.Is(err, service.ErrInvalidCode):
			middleware.CountRedemption("invalid_code")
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidCode)
		case errors.Is(err, service.ErrCodeExpired):
			middleware.CountRedemption("expired")
			response.Fail(c, http.StatusBadRequest, response.ErrCodeExpired)
		case errors.Is(err, service.ErrCodeExhausted):
			middleware.CountRedemption("exhausted")
			response.Fail(c, http.StatusBadRequest, response.ErrCodeExhausted)
		case errors.Is(err, service.ErrDuplicateAttendance):
			middleware.CountRedemption("duplicate")
			response.Fail(c, http.StatusConflict, response.ErrDuplicateAttendance)
		default:
			middleware.CountRedemption("error")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	middleware.CountRedemption("committed")
	response.Success(c, http.StatusCreated, "Attendance marked successfully", gin.H{
		"attendance": record,
	})
}

// List godoc
// GET /api/v1/attendance?user_id=&subject=&start_date=&end_date=
// Lists attendance records visible to the given user: students see their
// own, teachers their taught sessions, other roles everything.
func (h *AttendanceHandler) List(c *gin.Context) {
	userIDParam := c.Query("user_id")
	if userIDParam == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidUser)
		return
	}
	userID, err := strconv.Atoi(userIDParam)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	filter, ok := bindAttendanceFilter(c)
	if !ok {
		return
	}

	records, err := h.attendanceService.List(c.Request.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUser) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidUser)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"attendance":    records,
		"total_records": len(records),
	})
}

// bindAttendanceFilter reads the optional subject/start_date/end_date query
// parameters, failing the request with 400 on invalid dates.
func bindAttendanceFilter(c *gin.Context) (model.AttendanceFilter, bool) {
	filter := model.AttendanceFilter{Subject: c.Query("subject")}

	if raw := c.Query("start_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return filter, false
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return filter, false
		}
		filter.EndDate = &t
	}
	return filter, true
}
