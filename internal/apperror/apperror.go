// Package apperror defines the errors that cross the HTTP boundary. Each
// carries a Kind that fixes its status code, so callers never have to match
// on message text.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidRequest
	KindUnauthorized
	KindNotFound
	KindConflict
)

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Machine-readable codes returned alongside messages.
const (
	CodeUnauthorizedAccess = "UNAUTHORIZED_ACCESS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserDoesNotExist   = "USER_DOES_NOT_EXIST"
	CodeUserExists         = "USER_EXISTS"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInternalError      = "INTERNAL_SERVER_ERROR"
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.Status() }

// Is matches two *Error values of the same kind and code, so wrapped copies
// of a sentinel still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

var (
	ErrUnauthorizedAccess = &Error{Kind: KindUnauthorized, Code: CodeUnauthorizedAccess, Message: "Unauthorized access"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Code: CodeInvalidCredentials, Message: "Invalid credential"}
	ErrUserDoesNotExist   = &Error{Kind: KindNotFound, Code: CodeUserDoesNotExist, Message: "User does not exist"}
	ErrUserExists         = &Error{Kind: KindConflict, Code: CodeUserExists, Message: "User already exists"}
	ErrInternal           = &Error{Kind: KindInternal, Code: CodeInternalError, Message: "Internal Server Error"}
)

// InvalidRequest reports request validation failures.
func InvalidRequest(details ...FieldError) *Error {
	return &Error{Kind: KindInvalidRequest, Code: CodeInvalidRequest, Message: "Invalid request", Details: details}
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternalError, Message: ErrInternal.Message, Err: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
