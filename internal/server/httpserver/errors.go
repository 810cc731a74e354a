package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	codeInvalidInput       = "INVALID_INPUT"
	codeUsernameTaken      = "USERNAME_TAKEN"
	codeUnauthorized       = "UNAUTHORIZED"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	codeNotFound           = "NOT_FOUND"
	codeInternal           = "INTERNAL_ERROR"
)

const (
	msgUnauthorized       = "Authentication required"
	msgInvalidCredentials = "Invalid username or password"
	msgInternal           = "Internal server error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}

// statusFor maps a service error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, codeInvalidInput
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, codeUsernameTaken
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, codeUnauthorized
	case errors.Is(err, common.ErrTooManyAttempts):
		return http.StatusTooManyRequests, codeTooManyAttempts
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// writeError renders err. Internal errors never leak their text.
func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		msg = msgInternal
	case http.StatusUnauthorized:
		msg = msgUnauthorized
	case http.StatusConflict:
		msg = "Username already taken"
	}
	abortWithError(c, status, code, msg)
}
