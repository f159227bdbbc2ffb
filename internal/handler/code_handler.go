package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samsapp/sams-backend/internal/model"
	"github.com/samsapp/sams-backend/internal/response"
	"github.com/samsapp/sams-backend/internal/service"
	"github.com/samsapp/sams-backend/internal/validator"
)

// CodeHandler handles attendance code creation and validation.
type CodeHandler struct {
	codeService *service.CodeService
}

// NewCodeHandler creates a new CodeHandler.
func NewCodeHandler(codeService *service.CodeService) *CodeHandler {
	return &CodeHandler{codeService: codeService}
}

// CreateCode godoc
// POST /api/v1/codes
// Generates a unique attendance code owned by the given teacher.
func (h *CodeHandler) CreateCode(c *gin.Context) {
	var req model.CreateCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := parseTimestamp(req.ExpiresAt)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidDate)
			return
		}
		expiresAt = &t
	}

	code, err := h.codeService.Create(c.Request.Context(), &req, expiresAt)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTeacher) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidTeacher)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, "Attendance code generated successfully", gin.H{
		"attendance_code": code,
	})
}

// ValidateCode godoc
// POST /api/v1/codes/validate
// Checks a code without redeeming it. Business failures answer 200 with
// valid=false; only storage errors produce 500.
func (h *CodeHandler) ValidateCode(c *gin.Context) {
	var req model.ValidateCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.codeService.Validate(c.Request.Context(), req.Code)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if !result.Valid {
		response.Valid(c, false, reasonCode(result.Reason), nil)
		return
	}

	response.Valid(c, true, response.ErrCodeValid, gin.H{"attendance_code": result.Code})
}

// reasonCode maps a validation failure to its response code.
func reasonCode(reason error) response.ErrCode {
	switch {
	case errors.Is(reason, service.ErrCodeExpired):
		return response.ErrCodeExpired
	case errors.Is(reason, service.ErrCodeExhausted):
		return response.ErrCodeExhausted
	default:
		return response.ErrInvalidCode
	}
}
