package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Status  string `json:"status"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Unprocessable(c *gin.Context, code, message string) {
	Write(c, http.StatusUnprocessableEntity, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// StatusFor maps a business error code onto its HTTP status.
func StatusFor(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeClosedAtDay, CodeClosedAtTime, CodeFull, CodeConflict:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvalidState:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err using its business code when it has one and a generic
// internal error otherwise.
func FromError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	be, ok := AsBusiness(err)
	if !ok {
		Internal(c, fallbackCode, fallbackMessage)
		return
	}

	msg := be.Message
	if msg == "" {
		msg = defaultMessages[be.Code]
	}
	if msg == "" {
		msg = be.Code
	}

	c.AbortWithStatusJSON(StatusFor(be.Code), HTTPError{
		Status:  "error",
		Code:    be.Code,
		Message: msg,
		Field:   be.Field,
	})
}

var defaultMessages = map[string]string{
	CodeNotFound:     "The requested resource does not exist.",
	CodeClosedAtDay:  "Business is closed on this day.",
	CodeClosedAtTime: "Business is closed at this time.",
	CodeFull:         "No availability at this time.",
	CodeValidation:   "Validation error.",
	CodeInvalidState: "The operation is not allowed in the current state.",
	CodeForbidden:    "You are not allowed to perform this action.",
	CodeConflict:     "The resource already exists.",
}
