package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
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

var statusByKind = map[Kind]int{
	KindNotFound:          http.StatusNotFound,
	KindForbidden:         http.StatusForbidden,
	KindInvalidInput:      http.StatusUnprocessableEntity,
	KindInvalidTransition: http.StatusBadRequest,
	KindSlotUnavailable:   http.StatusConflict,
	KindOverlap:           http.StatusConflict,
	KindConflict:          http.StatusConflict,
	KindUnauthorized:      http.StatusUnauthorized,
}

// Respond maps a service error to the wire. Business errors carry
// their kind's status; gorm's not-found becomes 404; anything else is
// an opaque 500 so storage errors never leak.
func Respond(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		status, found := statusByKind[be.Kind]
		if !found {
			status = http.StatusInternalServerError
		}
		Write(c, status, be.Code, be.Message)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "not_found", "Resource not found.")
		return
	}

	log.Printf("internal error: %v", err)
	Internal(c, "internal_error", "Unexpected error.")
}
