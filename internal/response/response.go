package response

import (
	"github.com/gin-gonic/gin"
)

// All endpoints answer with a flat JSON envelope: {"success": bool,
// "message": string, ...payload}. Code validation uses {"valid": bool, ...}
// instead of "success".

// Success sends a successful envelope with the given status, message and
// extra payload fields merged in.
func Success(c *gin.Context, statusCode int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// Fail sends a failure envelope carrying the typed error code and its
// human-readable message.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, gin.H{
		"success":    false,
		"error_code": code,
		"message":    GetMessage(code),
	})
}

// FailWithFields sends a failure envelope with field-level validation
// details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, gin.H{
		"success":    false,
		"error_code": code,
		"message":    GetMessage(code),
		"fields":     fields,
	})
}

// Valid sends a code-validation envelope. Business failures travel as
// {"valid": false} with HTTP 200; only storage errors use Fail with 500.
func Valid(c *gin.Context, valid bool, code ErrCode, payload gin.H) {
	body := gin.H{
		"valid":   valid,
		"message": GetMessage(code),
	}
	if !valid {
		body["error_code"] = code
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(200, body)
}

// AbortFail aborts the middleware chain and sends a failure envelope.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success":    false,
		"error_code": code,
		"message":    GetMessage(code),
	})
}
