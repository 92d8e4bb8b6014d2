package contract

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ErrorCode string

const (
	ErrorCodeBadRequest            ErrorCode = "BAD_REQUEST"
	ErrorCodeInvalidParameterValue ErrorCode = "INVALID_PARAMETER_VALUE"
	ErrorCodeResourceDoesNotExist  ErrorCode = "RESOURCE_DOES_NOT_EXIST"
	ErrorCodeResourceAlreadyExists ErrorCode = "RESOURCE_ALREADY_EXISTS"
	ErrorCodeUnauthenticated       ErrorCode = "UNAUTHENTICATED"
	ErrorCodeNotFound              ErrorCode = "ENDPOINT_NOT_FOUND"
	ErrorCodeInternalError         ErrorCode = "INTERNAL_ERROR"
)

// Error is the single error shape surfaced by every API endpoint.
// It serializes as {"error": <message>}; the code only selects the
// HTTP status and the log severity.
type Error struct {
	Code    ErrorCode
	Message string
	inner   error
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func NewErrorWith(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, inner: err}
}

func (e *Error) Error() string {
	if e.inner != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.inner)
	}

	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.inner
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error string `json:"error"`
	}{Error: e.Message})
}

func (e *Error) StatusCode() int {
	switch e.Code {
	case ErrorCodeBadRequest, ErrorCodeInvalidParameterValue:
		return fiber.StatusBadRequest
	case ErrorCodeResourceDoesNotExist, ErrorCodeNotFound:
		return fiber.StatusNotFound
	case ErrorCodeResourceAlreadyExists:
		return fiber.StatusConflict
	case ErrorCodeUnauthenticated:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
