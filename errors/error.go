package errors

import "errors"

// Error is the application error carried across service boundaries. Code is
// one of the constants in codes.go, StatusCode the HTTP status the API layer
// should answer with.
type Error struct {
	Code       int64  `json:"code"`
	Message    string `json:"message"`
	Cause      error  // the underlying error
	Details    any    `json:"details,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

func NewError(code int64, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func (e *Error) WithStatusCode(statusCode int) *Error {
	e.StatusCode = statusCode
	return e
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) GetCode() int64 {
	return e.Code
}

func (e *Error) GetMessage() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) GetDetails() any {
	return e.Details
}

func (e *Error) GetStatusCode() int {
	return e.StatusCode
}

// AsError unwraps err into target; shorthand for the standard errors.As so
// callers don't need to import both error packages.
func AsError(err error, target **Error) bool {
	return errors.As(err, target)
}

// CodeOf returns the application error code carried by err, or zero when
// err is not an application error.
func CodeOf(err error) int64 {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.GetCode()
	}
	return 0
}
