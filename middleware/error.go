package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/castkit"
)

// Error is the body of an error response.
type Error struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// NewError builds a payload for failures that carry no location.
func NewError(code, message string) gin.H {
	return gin.H{"error": Error{Code: code, Message: message}}
}

// ErrorPayload shapes err for JSON responses. Validation errors keep their
// code, path and key; anything else is reported as internal.
func ErrorPayload(err error) gin.H {
	if ve, ok := castkit.AsValidationError(err); ok {
		return gin.H{"error": Error{Code: ve.Code, Path: ve.Path, Key: ve.Key, Message: ve.Error()}}
	}
	return NewError(CodeInternal, err.Error())
}

// Abort writes payload with status and stops the handler chain.
func Abort(c *gin.Context, status int, payload gin.H) {
	c.AbortWithStatusJSON(status, payload)
}
