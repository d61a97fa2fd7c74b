package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a hexmark error code.
type ErrorCode string

const (
	ErrInvalidName       ErrorCode = "INVALID_NAME"        // 400
	ErrIllegalCharacter  ErrorCode = "ILLEGAL_CHARACTER"   // 400
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"      // 404
	ErrNameAlreadyExists ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrInternal          ErrorCode = "INTERNAL"            // 500
)

// HexmarkError represents a structured error with code, status, and details.
type HexmarkError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *HexmarkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidName creates a 400 error for an empty or reserved bookmark name.
func NewInvalidName(name, reason string) *HexmarkError {
	return &HexmarkError{
		Code:    ErrInvalidName,
		Status:  400,
		Message: reason,
		Details: map[string]any{"name": name},
	}
}

// NewIllegalCharacter creates a 400 error for a name that would corrupt a stored record.
func NewIllegalCharacter(name string, char rune) *HexmarkError {
	return &HexmarkError{
		Code:    ErrIllegalCharacter,
		Status:  400,
		Message: fmt.Sprintf("illegal character %q in bookmark name", char),
		Details: map[string]any{"name": name, "character": string(char)},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *HexmarkError {
	return &HexmarkError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing or tombstoned bookmark.
func NewNotFound(identifier string) *HexmarkError {
	return &HexmarkError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("bookmark not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *HexmarkError {
	return &HexmarkError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNameAlreadyExists creates a 409 error for name collisions.
// Callers use it to ask the user before overwriting.
func NewNameAlreadyExists(name string, index int) *HexmarkError {
	return &HexmarkError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("a bookmark with the name %q already exists", name),
		Details: map[string]any{"name": name, "index": index},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *HexmarkError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &HexmarkError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a HexmarkError with the given code.
func Is(err error, code ErrorCode) bool {
	var hErr *HexmarkError
	if stderrors.As(err, &hErr) {
		return hErr.Code == code
	}
	return false
}

// CodeOf returns the code of a HexmarkError, or ErrInternal for any other error.
func CodeOf(err error) ErrorCode {
	var hErr *HexmarkError
	if stderrors.As(err, &hErr) {
		return hErr.Code
	}
	return ErrInternal
}
