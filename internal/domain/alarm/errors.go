package alarm

import (
	"errors"
	"fmt"
)

// ErrorCode classifies application errors.
type ErrorCode string

const (
	// ErrInternal marks failures that are not the caller's fault.
	ErrInternal ErrorCode = "internal"
	// ErrInvalid marks invalid user input.
	ErrInvalid ErrorCode = "invalid"
)

// MissingTimeMessage is reported when an alarm is armed without a time.
const MissingTimeMessage = "Please enter a valid alarm time!"

// Error is an application error.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode
	// Description is a human-readable description of the error.
	Description string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "alarm: " + string(e.Code) + ": " + e.Description
}

// Errorf builds an application error with the given code.
func Errorf(code ErrorCode, format string, args ...any) error {
	return &Error{Code: code, Description: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code associated with err, or ErrInternal if err
// isn't an application error.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}

	return ErrInternal
}

// DescriptionOf returns a human-readable description of the error, or
// "internal error" if err isn't an application error.
func DescriptionOf(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) && e.Description != "" {
		return e.Description
	}

	return "internal error"
}
